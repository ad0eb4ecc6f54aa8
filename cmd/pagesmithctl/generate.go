// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagesmith/internal/ai"
	"pagesmith/internal/config"
	"pagesmith/internal/generator"
	"pagesmith/internal/models"
)

func newGenerateCmd() *cobra.Command {
	var (
		profilePath string
		out         string
		section     string
		prompt      string
		template    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a landing page document from a business profile",
		Long: `Generate reads a business profile (YAML or JSON) and writes the generated
document as JSON. With --section only one section of that type is generated.

The AI provider is taken from the same environment variables as the server
(AI_PROVIDER, OPENAI_API_KEY, ...). Without one, template content is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := readProfile(profilePath)
			if err != nil {
				return err
			}
			gen, err := newGenerator(template)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if section != "" {
				res, err := gen.GenerateSection(ctx, models.Variant(section), profile, prompt)
				if err != nil {
					return err
				}
				warn(cmd, res.Notice)
				return writeJSON(cmd, out, res.Section)
			}

			res, err := gen.GenerateDocument(ctx, profile)
			if err != nil {
				return err
			}
			warn(cmd, res.Notice)
			return writeJSON(cmd, out, res.Document)
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Business profile file (.yaml, .yml or .json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&section, "section", "", "Generate a single section of this type")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Extra instructions for --section")
	cmd.Flags().BoolVar(&template, "template", false, "Use template content even if an AI provider is configured")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

// newGenerator builds a Generator from the environment. forceTemplate skips
// provider setup entirely.
func newGenerator(forceTemplate bool) (*generator.Generator, error) {
	if forceTemplate {
		return generator.New(generator.Options{}), nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	opts := generator.Options{Timeout: cfg.AITimeout}
	registry := ai.NewRegistry(cfg.AIProvider, cfg.ProviderConfigs())
	if registry.Enabled() {
		opts.AI = registry
		opts.Moderator = registry
	}
	return generator.New(opts), nil
}

func warn(cmd *cobra.Command, notice string) {
	if notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", notice)
	}
}
