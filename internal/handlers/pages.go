// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"pagesmith/internal/compiler"
	"pagesmith/internal/document"
	"pagesmith/internal/models"
)

// mutation changes a loaded document in place. The returned fields are
// added to the response next to "page".
type mutation func(ctx context.Context, doc *models.Document) (map[string]any, error)

// mutate runs a read-modify-write cycle on the document named by the {id}
// URL parameter while holding its lock. The document is saved only when
// apply succeeds.
func (a *API) mutate(w http.ResponseWriter, r *http.Request, status int, apply mutation) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	unlock := a.locks.lock(id)
	defer unlock()

	ctx := r.Context()
	doc, err := a.store.Find(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := apply(ctx, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.store.Save(ctx, doc); err != nil {
		writeError(w, r, err)
		return
	}

	if out == nil {
		out = map[string]any{}
	}
	out["page"] = doc
	writeOK(w, status, out)
}

// ListPages returns every stored document, most recently updated first.
func (a *API) ListPages(w http.ResponseWriter, r *http.Request) {
	docs, err := a.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"pages": docs})
}

// GetPage returns one document.
func (a *API) GetPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := a.store.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"page": doc})
}

// CreatePage stores a client-built document. A missing id is assigned;
// both timestamps are set to now.
func (a *API) CreatePage(w http.ResponseWriter, r *http.Request) {
	var doc models.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		writeError(w, r, err)
		return
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := a.now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if doc.Sections == nil {
		doc.Sections = []models.Section{}
	}
	if err := a.checkDocument(&doc); err != nil {
		writeError(w, r, err)
		return
	}

	unlock := a.locks.lock(doc.ID)
	defer unlock()

	ctx := r.Context()
	if _, err := a.store.Find(ctx, doc.ID); err == nil {
		writeError(w, r, invalid("page "+doc.ID.String()+" already exists"))
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		writeError(w, r, err)
		return
	}
	if err := a.store.Save(ctx, &doc); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, map[string]any{"page": &doc})
}

// UpdatePage overlays the request body onto the stored document: fields
// present in the body replace the stored ones, absent fields are kept.
// The id and createdAt cannot change.
func (a *API) UpdatePage(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, http.StatusOK, func(ctx context.Context, doc *models.Document) (map[string]any, error) {
		id, created, updated := doc.ID, doc.CreatedAt, doc.UpdatedAt
		if err := decodeJSON(w, r, doc); err != nil {
			return nil, err
		}
		doc.ID, doc.CreatedAt = id, created

		now := a.now().UTC()
		if now.Before(updated) {
			now = updated
		}
		doc.UpdatedAt = now
		return nil, a.checkDocument(doc)
	})
}

// DeletePage removes a document and its cached compilations.
func (a *API) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	unlock := a.locks.lock(id)
	defer unlock()

	if err := a.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if a.pages != nil {
		a.pages.Invalidate(id)
	}
	slog.Info("page deleted", "id", id)
	writeOK(w, http.StatusOK, map[string]any{"message": "Page deleted successfully"})
}

// Preview returns the compiled page with its stylesheet and script inlined,
// ready to load into an iframe.
func (a *API) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := a.store.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var art compiler.Artifacts
	if a.pages != nil {
		art = a.pages.Compile(doc)
	} else {
		art = compiler.Compile(doc)
	}
	w.Header().Set("Content-Type", compiler.ContentType(compiler.MarkupFile))
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(art.Preview()))
}

// checkDocument applies the request limits and the document invariants.
func (a *API) checkDocument(doc *models.Document) error {
	if err := validateDocumentLimits(doc); err != nil {
		return err
	}
	return document.Validate(doc)
}
