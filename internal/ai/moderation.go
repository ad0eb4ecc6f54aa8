// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a prompt safety check.
type ModerationResult struct {
	Safe       bool     // true if the prompt passes moderation
	Categories []string // list of flagged category names (empty when safe)
}

// Moderator checks free-text section instructions for policy violations
// before they are embedded in a generation prompt.
type Moderator interface {
	// CheckSafety evaluates a text prompt and returns whether it is safe
	// to send to an AI provider. If not safe, Categories lists the reasons.
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// moderationEndpoint checks text against a provider's /moderations API.
// OpenAI and Mistral accept the same {model, input} body and answer with a
// results list; only OpenAI reports a top-level "flagged" verdict.
type moderationEndpoint struct {
	name   string
	url    string
	model  string
	apiKey string
	client *http.Client
}

// newOpenAIModerator uses OpenAI's moderation API, free for every key holder.
func newOpenAIModerator(apiKey, baseURL string) *moderationEndpoint {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return newModerationEndpoint("openai moderation", baseURL+"/moderations", "omni-moderation-latest", apiKey)
}

// newMistralModerator uses Mistral's moderation API. It is the fallback when
// the OpenAI key cannot reach /moderations.
func newMistralModerator(apiKey, baseURL string) *moderationEndpoint {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return newModerationEndpoint("mistral moderation", baseURL+"/v1/moderations", "mistral-moderation-latest", apiKey)
}

func newModerationEndpoint(name, url, model, apiKey string) *moderationEndpoint {
	return &moderationEndpoint{
		name:   name,
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// CheckSafety screens text. An empty results list counts as safe.
func (m *moderationEndpoint) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	payload, err := json.Marshal(moderationRequest{Model: m.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("%s marshal: %w", m.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", m.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s http: %w", m.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", m.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(m.name, resp.StatusCode, respBody)
	}

	var result moderationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%s unmarshal: %w", m.name, err)
	}
	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}
	return result.Results[0].verdict(), nil
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []moderationScore `json:"results"`
}

type moderationScore struct {
	Flagged    *bool           `json:"flagged"` // absent in Mistral responses
	Categories map[string]bool `json:"categories"`
}

// verdict trusts the provider's flag when it sends one; otherwise any
// flagged category makes the text unsafe.
func (s moderationScore) verdict() *ModerationResult {
	categories := flaggedCategories(s.Categories)
	safe := len(categories) == 0
	if s.Flagged != nil {
		safe = !*s.Flagged
	}
	if safe {
		return &ModerationResult{Safe: true}
	}
	return &ModerationResult{Categories: categories}
}

// --- Fallback ---

// fallbackModerator asks primary first and switches to secondary when the
// primary rejects the credentials (e.g. project-scoped OpenAI keys that
// cannot reach /moderations).
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func newFallbackModerator(primary, secondary Moderator) *fallbackModerator {
	return &fallbackModerator{primary: primary, secondary: secondary}
}

func (m *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	res, err := m.primary.CheckSafety(ctx, text)
	if err == nil {
		return res, nil
	}
	var se *StatusError
	if errors.As(err, &se) && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		slog.Warn("primary moderator rejected credentials, using fallback", "error", err)
		return m.secondary.CheckSafety(ctx, text)
	}
	return nil, err
}

// flaggedCategories turns a category map into sorted, readable names:
// "hate/threatening" becomes "hate (threatening)".
func flaggedCategories(categories map[string]bool) []string {
	var flagged []string
	for cat, isFlagged := range categories {
		if !isFlagged {
			continue
		}
		display := strings.ReplaceAll(cat, "/", " (")
		if strings.Contains(cat, "/") {
			display += ")"
		}
		flagged = append(flagged, strings.ReplaceAll(display, "_", " "))
	}
	sort.Strings(flagged)
	return flagged
}
