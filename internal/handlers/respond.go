// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pagesmith/internal/generator"
	"pagesmith/internal/models"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeOK writes the success envelope. fields are merged next to
// "success": true.
func writeOK(w http.ResponseWriter, status int, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	writeJSON(w, status, body)
}

// errorBody is the failure envelope.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeError maps err onto a status code and the failure envelope.
// Unclassified errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= 500 {
		slog.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func classify(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, generator.ErrUpstreamParse):
		return http.StatusBadGateway, "The AI returned malformed content that does not match the page schema."
	case errors.Is(err, generator.ErrUpstreamUnavailable), errors.Is(err, generator.ErrUpstreamCapacity):
		return http.StatusServiceUnavailable, "The AI provider is unavailable. Please try again."
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// decodeJSON reads a bounded JSON body into dst. Syntax and type errors
// wrap models.ErrInvalidInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return err
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is required", models.ErrInvalidInput)
	default:
		return fmt.Errorf("%w: malformed JSON: %v", models.ErrInvalidInput, err)
	}
}

// pathID parses a uuid URL parameter. A malformed id cannot name any
// document, so it is reported as not found.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q", models.ErrNotFound, name, raw)
	}
	return id, nil
}
