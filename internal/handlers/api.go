// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP API of the landing-page service.
// Handlers are grouped by concern (generation, pages, sections, publishing)
// and receive their dependencies through the API struct.
package handlers

import (
	"net/http"
	"time"

	"pagesmith/internal/compiler"
	"pagesmith/internal/deploy"
	"pagesmith/internal/editor"
	"pagesmith/internal/export"
	"pagesmith/internal/generator"
	"pagesmith/internal/models"
	"pagesmith/internal/store"
)

// ServiceInfo describes the running service on GET /api.
type ServiceInfo struct {
	Version    string `json:"version"`
	AIProvider string `json:"aiProvider"`
	Store      string `json:"store"`
}

// Deps are the collaborators of the API. Pages may be nil, in which case
// previews compile without memoization.
type Deps struct {
	Generator *generator.Generator
	Store     store.DocumentStore
	Exports   *export.Service
	Deployer  deploy.Deployer
	Pages     *compiler.Cache
	Info      ServiceInfo
	Now       func() time.Time
}

// API groups every JSON endpoint and its dependencies.
type API struct {
	gen      *generator.Generator
	editor   *editor.Editor
	store    store.DocumentStore
	exports  *export.Service
	deployer deploy.Deployer
	pages    *compiler.Cache
	info     ServiceInfo
	now      func() time.Time
	locks    *docLocks
}

// NewAPI creates the handler group.
func NewAPI(d Deps) *API {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &API{
		gen:      d.Generator,
		editor:   editor.New(d.Generator, now),
		store:    d.Store,
		exports:  d.Exports,
		deployer: d.Deployer,
		pages:    d.Pages,
		info:     d.Info,
		now:      now,
		locks:    newDocLocks(),
	}
}

// endpoints is advertised by GET /api.
var endpoints = []string{
	"GET /health",
	"GET /api/sections/catalog",
	"POST /api/generate",
	"POST /api/generate/section",
	"GET /api/pages",
	"POST /api/pages",
	"GET /api/pages/{id}",
	"PUT /api/pages/{id}",
	"DELETE /api/pages/{id}",
	"POST /api/pages/{id}/sections",
	"PATCH /api/pages/{id}/sections/{sectionID}",
	"DELETE /api/pages/{id}/sections/{sectionID}",
	"PUT /api/pages/{id}/sections/order",
	"PUT /api/pages/{id}/theme",
	"GET /api/pages/{id}/preview",
	"POST /api/pages/{id}/export",
	"POST /api/pages/{id}/deploy",
	"POST /api/export",
	"GET /api/export/{id}/{file}",
	"GET /api/export/download/{id}",
	"POST /api/deploy",
}

// Health answers liveness probes.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Info describes the service and the endpoints it serves.
func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, map[string]any{
		"message":   "Landing Page Generator API Server",
		"status":    "running",
		"service":   a.info,
		"strategy":  a.gen.Strategy(),
		"endpoints": endpoints,
	})
}

// catalogEntry describes one section variant to clients building an
// "add section" menu.
type catalogEntry struct {
	Type        models.Variant `json:"type"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Standard    bool           `json:"standard"`
}

var variantDescriptions = map[models.Variant]string{
	models.VariantHero:         "Headline, subheadline and a call-to-action button over a background image",
	models.VariantAbout:        "Company description with an image",
	models.VariantFeatures:     "Grid of feature cards with icons",
	models.VariantTestimonials: "Customer quotes",
	models.VariantCTA:          "Closing call to action",
	models.VariantPricing:      "Pricing tiers",
	models.VariantCustom:       "Free-form text, text with image, or custom HTML",
}

// Catalog lists every section variant.
func (a *API) Catalog(w http.ResponseWriter, r *http.Request) {
	standard := make(map[models.Variant]bool, len(models.StandardVariants))
	for _, v := range models.StandardVariants {
		standard[v] = true
	}

	entries := make([]catalogEntry, 0, len(models.Variants))
	for _, v := range models.Variants {
		entries = append(entries, catalogEntry{
			Type:        v,
			Label:       v.Label(),
			Description: variantDescriptions[v],
			Standard:    standard[v],
		})
	}
	writeOK(w, http.StatusOK, map[string]any{"sections": entries})
}
