// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"pagesmith/internal/models"
)

type generateRequest struct {
	FormData *models.BusinessProfile `json:"formData"`
}

// Generate produces a complete document from a business profile and saves
// it. A capacity fallback is reported through "message".
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.FormData == nil {
		writeError(w, r, invalid("formData is required"))
		return
	}
	if err := validateProfile(*req.FormData); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := a.gen.GenerateDocument(r.Context(), *req.FormData)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.store.Save(r.Context(), res.Document); err != nil {
		writeError(w, r, err)
		return
	}

	out := map[string]any{"page": res.Document}
	if res.Fallback {
		out["message"] = res.Notice
	}
	writeOK(w, http.StatusOK, out)
}

type generateSectionRequest struct {
	Type     models.Variant          `json:"type"`
	FormData *models.BusinessProfile `json:"formData"`
	Prompt   string                  `json:"prompt"`
}

// GenerateSection produces a single section without attaching it to any
// document. The returned section has order 0.
func (a *API) GenerateSection(w http.ResponseWriter, r *http.Request) {
	var req generateSectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.FormData == nil {
		writeError(w, r, invalid("formData is required"))
		return
	}
	if err := validateProfile(*req.FormData); err != nil {
		writeError(w, r, err)
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := validatePrompt(req.Prompt); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := a.gen.GenerateSection(r.Context(), req.Type, *req.FormData, req.Prompt)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("section generated", "type", req.Type, "fallback", res.Fallback)
	out := map[string]any{"section": res.Section}
	if res.Fallback {
		out["message"] = res.Notice
	}
	writeOK(w, http.StatusOK, out)
}
