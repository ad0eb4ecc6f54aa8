// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoProvider is returned by the registry when the active provider has
// no API key configured.
var ErrNoProvider = errors.New("ai: no provider configured")

// ErrTruncated is returned when the provider stopped at its token limit, so
// the JSON it produced is incomplete.
var ErrTruncated = errors.New("ai: response truncated")

// StatusError is returned when a provider answers with a non-success HTTP
// status. It keeps enough of the response to classify the failure.
type StatusError struct {
	Provider   string
	StatusCode int
	Code       string // provider error code such as "insufficient_quota"
	Body       string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s API error (status %d, %s): %s", e.Provider, e.StatusCode, e.Code, e.Body)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// capacityMarkers are substrings that providers use in error bodies when a
// quota or rate limit was hit.
var capacityMarkers = []string{
	"insufficient_quota",
	"rate_limit",
	"RESOURCE_EXHAUSTED",
	"overloaded_error",
}

// IsCapacity reports whether err means the provider refused the request
// for quota or capacity reasons rather than because of a bad request.
func IsCapacity(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	// 529 is Anthropic's "overloaded" status.
	if se.StatusCode == http.StatusTooManyRequests || se.StatusCode == 529 {
		return true
	}
	for _, m := range capacityMarkers {
		if se.Code == m || strings.Contains(se.Body, m) {
			return true
		}
	}
	return false
}

// newStatusError builds a StatusError and extracts the provider's error
// code from the common {"error":{"code"|"type"|"status": ...}} envelope.
func newStatusError(provider string, status int, body []byte) *StatusError {
	return &StatusError{
		Provider:   provider,
		StatusCode: status,
		Code:       errorCode(body),
		Body:       truncateBody(string(body)),
	}
}

// truncateBody keeps error messages readable when a provider returns an
// HTML error page.
func truncateBody(s string) string {
	const maxLen = 512
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// errorEnvelope covers the error shapes of OpenAI/Mistral ({"error":{"code","type"}}),
// Anthropic ({"error":{"type"}}) and Google ({"error":{"status"}}).
type errorEnvelope struct {
	Error struct {
		Code   any    `json:"code"`
		Type   string `json:"type"`
		Status string `json:"status"`
	} `json:"error"`
}

// errorCode returns the most specific error code found in body, or "".
func errorCode(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if code, ok := env.Error.Code.(string); ok && code != "" {
		return code
	}
	if env.Error.Type != "" {
		return env.Error.Type
	}
	return env.Error.Status
}
