// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"pagesmith/internal/ai"
	"pagesmith/internal/models"
)

const (
	documentSystemPrompt = "You are a professional copywriter and web designer specializing in creating compelling landing pages. Respond only with JSON."
	sectionSystemPrompt  = "You are a professional copywriter and web designer specializing in creating compelling landing page sections. Respond only with JSON."
)

// customHTMLPolicy strips scripts, event handlers and other active content
// from model-written markup before it is stored.
var customHTMLPolicy = bluemonday.UGCPolicy()

// AIStrategy asks a language model for section copy and validates the
// answer against the section schema.
type AIStrategy struct {
	ai      TextGenerator
	timeout time.Duration
}

// NewAIStrategy wraps gen. A non-positive timeout selects DefaultTimeout.
func NewAIStrategy(gen TextGenerator, timeout time.Duration) *AIStrategy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &AIStrategy{ai: gen, timeout: timeout}
}

func (*AIStrategy) Name() string { return "ai" }

// rawSection is one section as the model writes it.
type rawSection struct {
	Type    models.Variant  `json:"type"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// Sections asks for the five standard sections in one call.
func (s *AIStrategy) Sections(ctx context.Context, p models.BusinessProfile) ([]models.Section, error) {
	out, err := s.call(ctx, documentSystemPrompt, buildDocumentPrompt(p))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Sections []rawSection `json:"sections"`
	}
	if err := json.Unmarshal([]byte(extractJSON(out)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}
	if len(resp.Sections) == 0 {
		return nil, fmt.Errorf("%w: no sections in response", ErrUpstreamParse)
	}

	sections := make([]models.Section, 0, len(resp.Sections))
	for i, raw := range resp.Sections {
		sec, err := toSection(raw)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// Section asks for a single section of variant v. The model must answer
// with the requested variant.
func (s *AIStrategy) Section(ctx context.Context, v models.Variant, p models.BusinessProfile, hint string) (models.Section, error) {
	if !v.Valid() {
		return models.Section{}, fmt.Errorf("%w: unknown section type %q", models.ErrInvalidInput, v)
	}
	out, err := s.call(ctx, sectionSystemPrompt, buildSectionPrompt(v, p, hint))
	if err != nil {
		return models.Section{}, err
	}

	var raw rawSection
	if err := json.Unmarshal([]byte(extractJSON(out)), &raw); err != nil {
		return models.Section{}, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}
	if raw.Type == "" {
		raw.Type = v
	}
	if raw.Type != v {
		return models.Section{}, fmt.Errorf("%w: asked for %s section, got %q", ErrUpstreamParse, v, raw.Type)
	}
	return toSection(raw)
}

// call runs one bounded request and maps provider failures onto the
// generator's error taxonomy.
func (s *AIStrategy) call(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.ai.Generate(ctx, system, user)
	if err != nil {
		return "", classify(ctx, err)
	}
	slog.Debug("ai response received", "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

// classify maps a provider error onto the generator's taxonomy, keeping the
// original error in the chain. A truncated answer is a parse failure.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ai.ErrTruncated):
		return fmt.Errorf("%w: %w", ErrUpstreamParse, err)
	case ai.IsCapacity(err):
		return fmt.Errorf("%w: %w", ErrUpstreamCapacity, err)
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return fmt.Errorf("%w: timed out: %w", ErrUpstreamUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
}

// toSection decodes, normalizes and validates one model-written section.
func toSection(raw rawSection) (models.Section, error) {
	if !raw.Type.Valid() {
		return models.Section{}, fmt.Errorf("%w: unknown section type %q", ErrUpstreamParse, raw.Type)
	}
	c, err := models.DecodeContent(raw.Type, raw.Content)
	if err != nil {
		return models.Section{}, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}
	c = normalizeContent(c)
	if err := c.Validate(); err != nil {
		return models.Section{}, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = contentTitle(c)
	}
	return models.NewSection(title, c), nil
}

// normalizeContent fills the fields the model is not asked for: nested ids,
// default links, icons and layout. Custom markup is sanitized.
func normalizeContent(c models.Content) models.Content {
	switch v := c.(type) {
	case models.HeroContent:
		if v.CTALink == "" {
			v.CTALink = "#contact"
		}
		return v
	case models.FeaturesContent:
		for i := range v.Features {
			if v.Features[i].ID == "" {
				v.Features[i].ID = uuid.NewString()
			}
			if strings.TrimSpace(v.Features[i].Icon) == "" {
				v.Features[i].Icon = models.DefaultIcon
			}
		}
		return v
	case models.TestimonialsContent:
		for i := range v.Testimonials {
			if v.Testimonials[i].ID == "" {
				v.Testimonials[i].ID = uuid.NewString()
			}
		}
		return v
	case models.CTAContent:
		if v.ButtonLink == "" {
			v.ButtonLink = "#contact"
		}
		return v
	case models.PricingContent:
		for i := range v.Tiers {
			if v.Tiers[i].ID == "" {
				v.Tiers[i].ID = uuid.NewString()
			}
		}
		return v
	case models.CustomContent:
		if v.Layout == "" {
			v.Layout = models.LayoutTextOnly
		}
		if v.CustomHTML != "" {
			v.CustomHTML = customHTMLPolicy.Sanitize(v.CustomHTML)
		}
		return v
	}
	return c
}

// contentTitle returns the content's own title, or the variant label for
// variants without one.
func contentTitle(c models.Content) string {
	var t string
	switch v := c.(type) {
	case models.AboutContent:
		t = v.Title
	case models.FeaturesContent:
		t = v.Title
	case models.TestimonialsContent:
		t = v.Title
	case models.CTAContent:
		t = v.Title
	case models.PricingContent:
		t = v.Title
	case models.CustomContent:
		t = v.Title
	}
	if t == "" {
		return c.Variant().Label()
	}
	return t
}

// extractJSON strips Markdown code fences and any prose around the outermost
// JSON object. Models sometimes wrap JSON in ```json blocks even in JSON mode.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		if nl := strings.Index(response, "\n"); nl != -1 {
			response = response[nl+1:]
		}
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
		response = strings.TrimSpace(response)
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end < start {
		return response
	}
	return response[start : end+1]
}
