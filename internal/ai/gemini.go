// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiProvider implements the Provider interface with the Google GenAI
// SDK against the Gemini Developer API.
type geminiProvider struct {
	model  string
	models *genai.Models
}

// newGemini creates a Gemini provider. BaseURL overrides the API endpoint,
// which lets tests point the SDK at an httptest server.
func newGemini(ctx context.Context, cfg ProviderConfig) (*geminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiProvider{model: cfg.Model, models: client.Models}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

// Generate calls generateContent with the system prompt as system
// instruction and asks for a JSON response body.
func (p *geminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(userPrompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: no text in response")
	}
	return text, nil
}

// classifyGeminiError converts SDK API errors into *StatusError so that
// quota exhaustion is recognized like the other providers'.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return geminiStatusError(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return geminiStatusError(*apiErrPtr)
	}
	return fmt.Errorf("gemini: %w", err)
}

func geminiStatusError(e genai.APIError) *StatusError {
	return &StatusError{
		Provider:   "gemini",
		StatusCode: e.Code,
		Code:       e.Status,
		Body:       truncateBody(e.Message),
	}
}
