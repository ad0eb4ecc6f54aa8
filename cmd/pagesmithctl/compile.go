// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pagesmith/internal/compiler"
	"pagesmith/internal/deploy"
	"pagesmith/internal/models"
)

func newCompileCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "compile <document.json>",
		Short: "Compile a document into index.html, styles.css and script.js",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if err := writeSite(out, compiler.Compile(doc)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "site", "Output directory")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		out  string
		jobs int
	)

	cmd := &cobra.Command{
		Use:   "export <document.json>...",
		Short: "Compile several documents in parallel, one directory per page",
		Long: `Export compiles every document into <out>/<slug>, where slug is derived
from the document title the same way deploy URLs are. Documents that share
a slug get a numeric suffix.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
			}

			docs := make([]*models.Document, len(args))
			for i, path := range args {
				doc, err := readDocument(path)
				if err != nil {
					return err
				}
				docs[i] = doc
			}
			dirs := siteDirs(docs)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, doc := range docs {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					dir := filepath.Join(out, dirs[i])
					if err := writeSite(dir, compiler.Compile(doc)); err != nil {
						return fmt.Errorf("%s: %w", args[i], err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, dir := range dirs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[i], filepath.Join(out, dir))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "sites", "Output directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Documents compiled in parallel")
	return cmd
}

// siteDirs names one directory per document. A slug already given out gets
// the first free -2, -3... suffix, so no two documents share a directory.
func siteDirs(docs []*models.Document) []string {
	taken := make(map[string]bool, len(docs))
	dirs := make([]string, len(docs))
	for i, doc := range docs {
		slug := deploy.Slug(doc.Title)
		name := slug
		for n := 2; taken[name]; n++ {
			name = slug + "-" + strconv.Itoa(n)
		}
		taken[name] = true
		dirs[i] = name
	}
	return dirs
}

// writeSite writes the three artifacts into dir, creating it if needed.
func writeSite(dir string, a compiler.Artifacts) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, name := range compiler.Files {
		body, _ := a.File(name)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
