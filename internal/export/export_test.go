// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/cache"
	"pagesmith/internal/compiler"
	"pagesmith/internal/document"
	"pagesmith/internal/models"
)

type fakeMirror struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMirror() *fakeMirror { return &fakeMirror{objects: map[string][]byte{}} }

func (m *fakeMirror) Upload(ctx context.Context, key, contentType string, body []byte) error {
	if m.failPut {
		return errors.New("bucket unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	return nil
}

func (m *fakeMirror) Download(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return b, nil
}

func (m *fakeMirror) URL(ctx context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func testDoc() *models.Document {
	p := models.BusinessProfile{
		BusinessName: "Acme",
		Industry:     "technology",
		Tone:         "bold",
		BrandColors:  models.BrandColors{Primary: "#3b82f6"},
		KeyFeatures:  []string{"Speed"},
	}
	sections := []models.Section{
		models.NewSection("", models.HeroContent{Headline: "Hello Acme", CTAText: "Go", CTALink: "#contact"}),
	}
	return document.Assemble(p, sections, models.DeriveTheme(p), time.Now())
}

func TestExportAndFile(t *testing.T) {
	svc := NewService(cache.NewMemoryExportCache(time.Minute), nil, compiler.NewCache())
	ctx := context.Background()

	r, err := svc.Export(ctx, testDoc())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if r.DownloadURL != "/api/export/download/"+r.ExportID {
		t.Errorf("DownloadURL = %q", r.DownloadURL)
	}
	if len(r.Files) != 3 || r.PublicURL != "" {
		t.Errorf("receipt = %+v", r)
	}

	html, err := svc.File(ctx, r.ExportID, "index.html")
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if !strings.Contains(string(html), "Hello Acme") {
		t.Error("index.html missing hero headline")
	}
	css, _ := svc.File(ctx, r.ExportID, "styles.css")
	if !strings.Contains(string(css), "--primary-color: #3b82f6") {
		t.Error("styles.css missing theme")
	}
	js, _ := svc.File(ctx, r.ExportID, "script.js")
	if string(js) != compiler.Script() {
		t.Error("script.js differs from the compiler script")
	}
}

func TestFileNotFound(t *testing.T) {
	svc := NewService(cache.NewMemoryExportCache(time.Minute), nil, nil)
	ctx := context.Background()
	r, err := svc.Export(ctx, testDoc())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct{ id, name string }{
		{uuid.NewString(), "index.html"},
		{"../../etc", "index.html"},
		{r.ExportID, "passwd"},
		{r.ExportID, "../index.html"},
	}
	for _, tt := range tests {
		if _, err := svc.File(ctx, tt.id, tt.name); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("File(%q, %q) = %v, want ErrNotFound", tt.id, tt.name, err)
		}
	}
}

func TestExportMirror(t *testing.T) {
	m := newMirror()
	svc := NewService(cache.NewMemoryExportCache(time.Minute), m, nil)
	ctx := context.Background()

	r, err := svc.Export(ctx, testDoc())
	if err != nil {
		t.Fatal(err)
	}
	if r.PublicURL != "https://cdn.example.com/exports/"+r.ExportID+"/index.html" {
		t.Errorf("PublicURL = %q", r.PublicURL)
	}
	if len(m.objects) != 3 {
		t.Errorf("mirrored %d files, want 3", len(m.objects))
	}

	// A fresh cache has lost the export; the mirror still serves it.
	svc2 := NewService(cache.NewMemoryExportCache(time.Minute), m, nil)
	if _, err := svc2.File(ctx, r.ExportID, "styles.css"); err != nil {
		t.Errorf("File from mirror: %v", err)
	}
	if _, err := svc2.File(ctx, uuid.NewString(), "styles.css"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("missing in mirror: %v", err)
	}
}

func TestExportMirrorFailureIsSoft(t *testing.T) {
	m := newMirror()
	m.failPut = true
	svc := NewService(cache.NewMemoryExportCache(time.Minute), m, nil)

	r, err := svc.Export(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Export failed because of the mirror: %v", err)
	}
	if r.PublicURL != "" {
		t.Errorf("PublicURL = %q after failed upload", r.PublicURL)
	}
}

func TestExportDraftBypassesCache(t *testing.T) {
	pages := compiler.NewCache()
	svc := NewService(cache.NewMemoryExportCache(time.Minute), nil, pages)
	ctx := context.Background()

	doc := testDoc()
	if _, err := svc.Export(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if pages.Len() != 1 {
		t.Fatalf("stored export should populate the page cache, len = %d", pages.Len())
	}

	// Same id and timestamp, different content: a cached compile would be stale.
	draft := doc.Clone()
	draft.Sections[0].Content = models.HeroContent{Headline: "Edited locally", CTAText: "Go", CTALink: "#contact"}
	r, err := svc.ExportDraft(ctx, draft)
	if err != nil {
		t.Fatal(err)
	}
	html, _ := svc.File(ctx, r.ExportID, compiler.MarkupFile)
	if !strings.Contains(string(html), "Edited locally") {
		t.Error("draft export used a stale cached compile")
	}
	if pages.Len() != 1 {
		t.Errorf("draft export touched the page cache, len = %d", pages.Len())
	}
}
