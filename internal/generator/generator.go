// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator turns a BusinessProfile into landing-page sections.
// Two strategies implement the same interface: AIStrategy delegates to a
// language model and validates its JSON, TemplateStrategy interpolates
// the profile into fixed copy. The Generator picks one per call and falls
// back to the template strategy when the model reports a capacity problem.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pagesmith/internal/ai"
	"pagesmith/internal/document"
	"pagesmith/internal/models"
)

// Generation failures. ErrUpstreamCapacity never reaches callers of the
// Generator because it triggers the fallback; the others are surfaced.
var (
	// ErrUpstreamParse means the model answered with content that does not
	// match the section schema. Retrying may help; falling back does not
	// happen automatically.
	ErrUpstreamParse = errors.New("ai response did not match the section schema")

	// ErrUpstreamCapacity means the model refused for quota or rate reasons.
	ErrUpstreamCapacity = errors.New("ai capacity exceeded")

	// ErrUpstreamUnavailable covers timeouts, transport errors and any other
	// provider failure.
	ErrUpstreamUnavailable = errors.New("ai provider unavailable")
)

// FallbackNotice is the soft warning attached to results produced by the
// template strategy after a capacity failure.
const FallbackNotice = "Generated using template content (AI capacity exceeded)"

// DefaultTimeout bounds a single AI call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TextGenerator is the AI collaborator. *ai.Registry satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// PromptChecker screens free-text hints before they reach the model.
// *ai.Registry satisfies it.
type PromptChecker interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// DocumentResult is a generated document plus whether the fallback ran.
type DocumentResult struct {
	Document *models.Document
	Fallback bool
	Notice   string
}

// SectionResult is a single generated section. Its Order is left at zero;
// the caller assigns it when inserting into a document.
type SectionResult struct {
	Section  models.Section
	Fallback bool
	Notice   string
}

// Options configures a Generator. A nil AI selects the template strategy
// for every call.
type Options struct {
	AI        TextGenerator
	Moderator PromptChecker
	Timeout   time.Duration
	Now       func() time.Time
}

// Generator selects a strategy per call and handles capacity fallback.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	primary   Strategy
	fallback  Strategy
	moderator PromptChecker
	now       func() time.Time
}

// New builds a Generator. The template strategy is always available as
// the fallback.
func New(opts Options) *Generator {
	tmpl := NewTemplateStrategy()
	g := &Generator{
		primary:   tmpl,
		fallback:  tmpl,
		moderator: opts.Moderator,
		now:       opts.Now,
	}
	if opts.AI != nil {
		g.primary = NewAIStrategy(opts.AI, opts.Timeout)
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Strategy returns the name of the strategy tried first.
func (g *Generator) Strategy() string {
	return g.primary.Name()
}

// GenerateDocument produces a complete document for profile. Sections get
// orders 0..k-1 in the order the strategy returned them.
func (g *Generator) GenerateDocument(ctx context.Context, profile models.BusinessProfile) (*DocumentResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	profile = profile.Normalized()

	sections, err := g.primary.Sections(ctx, profile)
	fallback := false
	if errors.Is(err, ErrUpstreamCapacity) && g.primary != g.fallback {
		slog.Warn("ai capacity exceeded, using template content",
			"strategy", g.primary.Name(), "business", profile.BusinessName, "error", err)
		sections, err = g.fallback.Sections(ctx, profile)
		fallback = true
	}
	if err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}

	for i := range sections {
		sections[i].Order = i
	}

	doc := document.Assemble(profile, sections, models.DeriveTheme(profile), g.now())
	res := &DocumentResult{Document: doc, Fallback: fallback}
	if fallback {
		res.Notice = FallbackNotice
	}

	slog.Info("document generated",
		"id", doc.ID, "sections", len(doc.Sections), "fallback", fallback)
	return res, nil
}

// GenerateSection produces one section of variant v. hint is optional
// free text; when a moderator is configured it is screened first.
func (g *Generator) GenerateSection(ctx context.Context, v models.Variant, profile models.BusinessProfile, hint string) (*SectionResult, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: unknown section type %q", models.ErrInvalidInput, v)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	profile = profile.Normalized()

	hint = strings.TrimSpace(hint)
	if err := g.checkHint(ctx, hint); err != nil {
		return nil, err
	}

	section, err := g.primary.Section(ctx, v, profile, hint)
	fallback := false
	if errors.Is(err, ErrUpstreamCapacity) && g.primary != g.fallback {
		slog.Warn("ai capacity exceeded, using template section",
			"strategy", g.primary.Name(), "type", v, "error", err)
		section, err = g.fallback.Section(ctx, v, profile, hint)
		fallback = true
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s section: %w", v, err)
	}

	res := &SectionResult{Section: section, Fallback: fallback}
	if fallback {
		res.Notice = FallbackNotice
	}
	return res, nil
}

// checkHint rejects flagged hints. Moderation errors are logged and the
// hint is allowed, since providers apply their own filters. A nil result
// counts as safe.
func (g *Generator) checkHint(ctx context.Context, hint string) error {
	if hint == "" || g.moderator == nil {
		return nil
	}
	res, err := g.moderator.CheckPrompt(ctx, hint)
	if err != nil {
		slog.Warn("moderation check failed, allowing prompt", "error", err)
		return nil
	}
	if res == nil || res.Safe {
		return nil
	}
	categories := strings.Join(res.Categories, ", ")
	slog.Warn("section prompt flagged by moderation", "categories", categories)
	return fmt.Errorf("%w: prompt was flagged for: %s", models.ErrInvalidInput, categories)
}
