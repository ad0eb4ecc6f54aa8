// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the shared test harness: an API backed by the
// in-memory store and export cache, mounted on a chi router.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/cache"
	"pagesmith/internal/compiler"
	"pagesmith/internal/deploy"
	"pagesmith/internal/document"
	"pagesmith/internal/export"
	"pagesmith/internal/generator"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// mockAI implements generator.TextGenerator with a canned answer.
type mockAI struct {
	response string
	err      error
}

func (m *mockAI) Generate(_ context.Context, _, _ string) (string, error) {
	return m.response, m.err
}

// testClock hands out strictly increasing times.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type harness struct {
	api   *API
	store *store.MemoryStore
	h     http.Handler
}

// newHarness builds an API. A nil ai selects the template strategy.
func newHarness(t *testing.T, ai generator.TextGenerator) *harness {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}

	opts := generator.Options{Now: clock.now}
	if ai != nil {
		opts.AI = ai
	}
	pages := compiler.NewCache()
	st := store.NewMemoryStore()
	api := NewAPI(Deps{
		Generator: generator.New(opts),
		Store:     st,
		Exports:   export.NewService(cache.NewMemoryExportCache(time.Hour), nil, pages),
		Deployer:  deploy.NewSlugDeployer(""),
		Pages:     pages,
		Info:      ServiceInfo{Version: "test", AIProvider: "none", Store: "memory"},
		Now:       clock.now,
	})

	r := chi.NewRouter()
	api.Register(r, nil)
	return &harness{api: api, store: st, h: r}
}

// envelope decodes every response shape the API produces.
type envelope struct {
	Success     bool               `json:"success"`
	Error       string             `json:"error"`
	Message     string             `json:"message"`
	Status      string             `json:"status"`
	Strategy    string             `json:"strategy"`
	Endpoints   []string           `json:"endpoints"`
	Page        *models.Document   `json:"page"`
	Pages       []*models.Document `json:"pages"`
	Section     *models.Section    `json:"section"`
	Sections    []catalogEntry     `json:"sections"`
	URL         string             `json:"url"`
	ExportID    string             `json:"exportId"`
	DownloadURL string             `json:"downloadUrl"`
	Files       []string           `json:"files"`
}

// do sends body (marshaled unless it is a string) and decodes the reply.
func (h *harness) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)

	var env envelope
	if ct := rr.Header().Get("Content-Type"); ct == "application/json; charset=utf-8" {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rr.Body.String(), err)
		}
	}
	return rr, env
}

func acmeProfile() models.BusinessProfile {
	return models.BusinessProfile{
		BusinessName:   "Acme",
		Industry:       "technology",
		Tone:           "professional",
		BrandColors:    models.BrandColors{Primary: "#3b82f6", Secondary: "#93c5fd"},
		TargetAudience: "small businesses",
		KeyFeatures:    []string{"Speed", "Security", "Analytics"},
	}
}

// seed generates and stores a template document.
func (h *harness) seed(t *testing.T) *models.Document {
	t.Helper()
	rr, env := h.do(t, http.MethodPost, "/api/generate", map[string]any{"formData": acmeProfile()})
	if rr.Code != http.StatusOK || env.Page == nil {
		t.Fatalf("seed: %d %s", rr.Code, rr.Body.String())
	}
	return env.Page
}

// draft builds an unsaved document with one hero section.
func draft() *models.Document {
	p := acmeProfile()
	sections := []models.Section{
		models.NewSection("", models.HeroContent{Headline: "Hello from Acme", CTAText: "Go", CTALink: "#contact"}),
	}
	return document.Assemble(p, sections, models.DeriveTheme(p), time.Now())
}
