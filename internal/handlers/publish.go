// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pagesmith/internal/compiler"
	"pagesmith/internal/export"
	"pagesmith/internal/models"
)

// downloadName is the attachment name of a downloaded export.
const downloadName = "landing-page.html"

// decodeDraft reads a client-supplied document for export or deploy. Only
// the fields the compiler needs are required.
func decodeDraft(w http.ResponseWriter, r *http.Request) (*models.Document, error) {
	var doc models.Document
	if err := decodeJSON(w, r, &doc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Title) == "" {
		return nil, invalid("page data with a title is required")
	}
	if len(doc.Sections) > maxSections {
		return nil, invalid("too many sections")
	}
	return &doc, nil
}

func receiptFields(rc *export.Receipt) map[string]any {
	out := map[string]any{
		"message":     "Landing page exported successfully",
		"exportId":    rc.ExportID,
		"downloadUrl": rc.DownloadURL,
		"files":       rc.Files,
	}
	if rc.PublicURL != "" {
		out["publicUrl"] = rc.PublicURL
	}
	return out
}

// Export compiles a document sent in the request body.
func (a *API) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDraft(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := a.exports.ExportDraft(r.Context(), doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, receiptFields(rc))
}

// ExportPage compiles a stored document.
func (a *API) ExportPage(w http.ResponseWriter, r *http.Request) {
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
	rc, err := a.exports.Export(r.Context(), doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, receiptFields(rc))
}

// ExportFile serves one file of an export with its content type.
func (a *API) ExportFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	body, err := a.exports.File(r.Context(), chi.URLParam(r, "exportID"), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", compiler.ContentType(name))
	w.Write(body)
}

// Download serves an export's index.html as an attachment.
func (a *API) Download(w http.ResponseWriter, r *http.Request) {
	body, err := a.exports.File(r.Context(), chi.URLParam(r, "exportID"), compiler.MarkupFile)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", compiler.ContentType(compiler.MarkupFile))
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	w.Write(body)
}

// Deploy returns the publish URL of a document sent in the request body.
// Nothing is stored.
func (a *API) Deploy(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeDraft(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	url, err := a.deployer.Deploy(r.Context(), doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{
		"message": "Landing page deployed successfully",
		"url":     url,
	})
}

// DeployPage publishes a stored document and records the URL on it.
func (a *API) DeployPage(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, http.StatusOK, func(ctx context.Context, doc *models.Document) (map[string]any, error) {
		url, err := a.deployer.Deploy(ctx, doc)
		if err != nil {
			return nil, err
		}
		a.editor.MarkPublished(doc, url)
		return map[string]any{
			"message": "Landing page deployed successfully",
			"url":     url,
		}, nil
	})
}
