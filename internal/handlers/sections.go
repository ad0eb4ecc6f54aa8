// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

type addSectionRequest struct {
	Type     models.Variant          `json:"type"`
	Prompt   string                  `json:"prompt"`
	FormData *models.BusinessProfile `json:"formData"`
}

// AddSection generates a section and appends it to the document. formData
// overrides the document's stored profile for this one generation.
func (a *API) AddSection(w http.ResponseWriter, r *http.Request) {
	var req addSectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := validatePrompt(req.Prompt); err != nil {
		writeError(w, r, err)
		return
	}
	if req.FormData != nil {
		if err := validateProfile(*req.FormData); err != nil {
			writeError(w, r, err)
			return
		}
	}

	a.mutate(w, r, http.StatusCreated, func(ctx context.Context, doc *models.Document) (map[string]any, error) {
		if len(doc.Sections) >= maxSections {
			return nil, invalid("page already has the maximum number of sections")
		}
		res, err := a.editor.AddSection(ctx, doc, req.Type, req.FormData, req.Prompt)
		if err != nil {
			return nil, err
		}
		out := map[string]any{"section": res.Section}
		if res.Fallback {
			out["message"] = res.Notice
		}
		return out, nil
	})
}

type patchSectionRequest struct {
	Title   *string                    `json:"title"`
	Content map[string]json.RawMessage `json:"content"`
}

// UpdateSection changes a section's title, its content fields, or both.
// Content is merged field by field into the existing content.
func (a *API) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req patchSectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Title == nil && req.Content == nil {
		writeError(w, r, invalid("title or content is required"))
		return
	}
	if req.Title != nil {
		if err := validateSectionTitle(*req.Title); err != nil {
			writeError(w, r, err)
			return
		}
	}
	sectionID, err := pathID(r, "sectionID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.mutate(w, r, http.StatusOK, func(_ context.Context, doc *models.Document) (map[string]any, error) {
		if req.Title != nil {
			if err := a.editor.UpdateSectionTitle(doc, sectionID, *req.Title); err != nil {
				return nil, err
			}
		}
		if req.Content != nil {
			if err := a.editor.UpdateSectionContent(doc, sectionID, req.Content); err != nil {
				return nil, err
			}
		}
		if err := validateDocumentLimits(doc); err != nil {
			return nil, err
		}
		return map[string]any{"section": doc.Sections[doc.SectionIndex(sectionID)]}, nil
	})
}

// DeleteSection removes a section. The remaining orders are kept.
func (a *API) DeleteSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := pathID(r, "sectionID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.mutate(w, r, http.StatusOK, func(_ context.Context, doc *models.Document) (map[string]any, error) {
		return nil, a.editor.RemoveSection(doc, sectionID)
	})
}

type reorderRequest struct {
	OrderedIDs []string `json:"orderedIds"`
}

// ReorderSections gives each listed section its position in orderedIds.
// Ids that match no section are ignored.
func (a *API) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.OrderedIDs == nil {
		writeError(w, r, invalid("orderedIds is required"))
		return
	}
	ids := make([]uuid.UUID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, invalid("orderedIds contains a malformed id: "+raw))
			return
		}
		ids = append(ids, id)
	}

	a.mutate(w, r, http.StatusOK, func(_ context.Context, doc *models.Document) (map[string]any, error) {
		a.editor.ReorderSections(doc, ids)
		return nil, nil
	})
}

type themeRequest struct {
	ColorScheme models.ColorScheme `json:"colorScheme"`
}

// SetTheme switches the document between the light and dark palettes.
func (a *API) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a.mutate(w, r, http.StatusOK, func(_ context.Context, doc *models.Document) (map[string]any, error) {
		return nil, a.editor.SetColorScheme(doc, req.ColorScheme)
	})
}
