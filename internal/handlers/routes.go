// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts every endpoint on r. limit wraps the routes that call
// the generator; nil leaves them unlimited.
func (a *API) Register(r chi.Router, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/health", a.Health)
	r.Get("/", a.Info)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", a.Info)
		r.Get("/sections/catalog", a.Catalog)

		r.With(limit).Post("/generate", a.Generate)
		r.With(limit).Post("/generate/section", a.GenerateSection)

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", a.ListPages)
			r.Post("/", a.CreatePage)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.GetPage)
				r.Put("/", a.UpdatePage)
				r.Delete("/", a.DeletePage)
				r.Get("/preview", a.Preview)
				r.Put("/theme", a.SetTheme)
				r.Post("/export", a.ExportPage)
				r.Post("/deploy", a.DeployPage)

				r.With(limit).Post("/sections", a.AddSection)
				r.Put("/sections/order", a.ReorderSections)
				r.Patch("/sections/{sectionID}", a.UpdateSection)
				r.Delete("/sections/{sectionID}", a.DeleteSection)
			})
		})

		r.Post("/export", a.Export)
		r.Get("/export/download/{exportID}", a.Download)
		r.Get("/export/{exportID}/{file}", a.ExportFile)

		r.Post("/deploy", a.Deploy)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no route for " + r.Method + " " + r.URL.Path})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method " + r.Method + " not allowed"})
	})
}
