// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export compiles documents into static sites and keeps the files
// available for download under a generated export id.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pagesmith/internal/cache"
	"pagesmith/internal/compiler"
	"pagesmith/internal/models"
)

// Mirror is optional durable storage for exports. *storage.Client
// satisfies it.
type Mirror interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	URL(ctx context.Context, key string) (string, error)
}

// Receipt describes a finished export.
type Receipt struct {
	ExportID    string   `json:"exportId"`
	DownloadURL string   `json:"downloadUrl"`
	Files       []string `json:"files"`
	// PublicURL links to the mirrored index.html when a mirror is set.
	PublicURL string `json:"publicUrl,omitempty"`
}

// Service compiles and stores exports.
type Service struct {
	files  cache.ExportCache
	mirror Mirror
	pages  *compiler.Cache
}

// NewService creates a Service. mirror and pages may be nil.
func NewService(files cache.ExportCache, mirror Mirror, pages *compiler.Cache) *Service {
	return &Service{files: files, mirror: mirror, pages: pages}
}

// DownloadURL is the API path that serves an export's index.html.
func DownloadURL(exportID string) string {
	return "/api/export/download/" + exportID
}

// objectKey is the mirror key of one exported file.
func objectKey(exportID, name string) string {
	return path.Join("exports", exportID, name)
}

// Export compiles a stored document and stores the three files under a
// new export id. Compilation goes through the page cache when one is set.
// A mirror failure is logged and does not fail the export.
func (s *Service) Export(ctx context.Context, doc *models.Document) (*Receipt, error) {
	if s.pages != nil {
		return s.store(ctx, doc, s.pages.Compile(doc))
	}
	return s.store(ctx, doc, compiler.Compile(doc))
}

// ExportDraft is Export for a document supplied by a client rather than
// loaded from the store. Its id and timestamps cannot be trusted as a
// cache key, so it is always compiled afresh.
func (s *Service) ExportDraft(ctx context.Context, doc *models.Document) (*Receipt, error) {
	return s.store(ctx, doc, compiler.Compile(doc))
}

func (s *Service) store(ctx context.Context, doc *models.Document, a compiler.Artifacts) (*Receipt, error) {
	files := make(map[string][]byte, len(compiler.Files))
	for _, name := range compiler.Files {
		body, _ := a.File(name)
		files[name] = []byte(body)
	}

	id := uuid.NewString()
	if err := s.files.Put(ctx, id, files); err != nil {
		return nil, fmt.Errorf("export %s: %w", doc.ID, err)
	}

	receipt := &Receipt{
		ExportID:    id,
		DownloadURL: DownloadURL(id),
		Files:       append([]string(nil), compiler.Files...),
	}

	if s.mirror != nil {
		if err := s.upload(ctx, id, files); err != nil {
			slog.Warn("export mirror upload failed", "export", id, "error", err)
		} else if u, err := s.mirror.URL(ctx, objectKey(id, compiler.MarkupFile)); err == nil {
			receipt.PublicURL = u
		}
	}

	slog.Info("document exported", "document", doc.ID, "export", id)
	return receipt, nil
}

// upload copies every file to the mirror in parallel.
func (s *Service) upload(ctx context.Context, id string, files map[string][]byte) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, body := range files {
		g.Go(func() error {
			return s.mirror.Upload(ctx, objectKey(id, name), compiler.ContentType(name), body)
		})
	}
	return g.Wait()
}

// File returns one exported file. Unknown ids, expired exports and names
// other than the three site files yield models.ErrNotFound. When the
// cache has lost an export, the mirror is consulted.
func (s *Service) File(ctx context.Context, exportID, name string) ([]byte, error) {
	if _, err := uuid.Parse(exportID); err != nil {
		return nil, fmt.Errorf("%w: export %q", models.ErrNotFound, exportID)
	}
	if !isSiteFile(name) {
		return nil, fmt.Errorf("%w: export file %q", models.ErrNotFound, name)
	}

	body, err := s.files.Get(ctx, exportID, name)
	if err == nil || !errors.Is(err, models.ErrNotFound) || s.mirror == nil {
		return body, err
	}

	body, merr := s.mirror.Download(ctx, objectKey(exportID, name))
	if merr != nil {
		slog.Debug("export not in mirror", "export", exportID, "file", name, "error", merr)
		return nil, err
	}
	return body, nil
}

func isSiteFile(name string) bool {
	for _, f := range compiler.Files {
		if f == name {
			return true
		}
	}
	return false
}
