// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor applies user edits to a document: section content and
// title updates, insertion, removal, reordering, theme scheme changes and
// publication. Every successful mutation advances UpdatedAt.
//
// Editor methods mutate the document in place and are not safe for
// concurrent use on the same document; callers serialize per document.
package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/generator"
	"pagesmith/internal/models"
)

// SectionGenerator produces new sections. *generator.Generator satisfies it.
type SectionGenerator interface {
	GenerateSection(ctx context.Context, v models.Variant, profile models.BusinessProfile, hint string) (*generator.SectionResult, error)
}

// Editor mutates documents.
type Editor struct {
	gen SectionGenerator
	now func() time.Time
}

// New returns an Editor. A nil now uses time.Now.
func New(gen SectionGenerator, now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{gen: gen, now: now}
}

// touch advances UpdatedAt to the current time, never moving it backwards
// and never before CreatedAt.
func (e *Editor) touch(doc *models.Document) {
	t := e.now().UTC()
	if t.Before(doc.UpdatedAt) {
		t = doc.UpdatedAt
	}
	if t.Before(doc.CreatedAt) {
		t = doc.CreatedAt
	}
	doc.UpdatedAt = t
}

func (e *Editor) find(doc *models.Document, id uuid.UUID) (int, error) {
	i := doc.SectionIndex(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: section %s", models.ErrNotFound, id)
	}
	return i, nil
}

// UpdateSectionContent overlays partial onto the section's content. Only
// the given top-level fields change; the merged content must still decode
// into the section's variant.
func (e *Editor) UpdateSectionContent(doc *models.Document, id uuid.UUID, partial map[string]json.RawMessage) error {
	i, err := e.find(doc, id)
	if err != nil {
		return err
	}
	sec := &doc.Sections[i]
	if _, unknown := sec.Content.(models.UnknownContent); unknown || sec.Content == nil {
		return fmt.Errorf("%w: section %s has type %q and cannot be edited", models.ErrInvalidInput, id, sec.Variant)
	}

	merged, err := models.MergeContent(sec.Content, partial)
	if err != nil {
		return fmt.Errorf("update section %s: %w", id, err)
	}
	sec.Content = merged
	e.touch(doc)
	return nil
}

// UpdateSectionTitle renames a section. A blank title is rejected.
func (e *Editor) UpdateSectionTitle(doc *models.Document, id uuid.UUID, title string) error {
	i, err := e.find(doc, id)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: section title is required", models.ErrInvalidInput)
	}
	doc.Sections[i].Title = title
	e.touch(doc)
	return nil
}

// AddSection generates a section of variant v and appends it after every
// existing section. profile overrides the document's own profile when set.
// The returned result carries the fallback flag and notice.
func (e *Editor) AddSection(ctx context.Context, doc *models.Document, v models.Variant, profile *models.BusinessProfile, hint string) (*generator.SectionResult, error) {
	p := doc.BusinessProfile
	if profile != nil {
		p = *profile
	}

	res, err := e.gen.GenerateSection(ctx, v, p, hint)
	if err != nil {
		return nil, err
	}

	res.Section.Order = doc.NextOrder()
	for doc.SectionIndex(res.Section.ID) >= 0 {
		res.Section.ID = uuid.New()
	}
	doc.Sections = append(doc.Sections, res.Section)
	e.touch(doc)
	return res, nil
}

// RemoveSection deletes a section. Remaining orders are not renumbered.
func (e *Editor) RemoveSection(doc *models.Document, id uuid.UUID) error {
	i, err := e.find(doc, id)
	if err != nil {
		return err
	}
	doc.Sections = append(doc.Sections[:i], doc.Sections[i+1:]...)
	e.touch(doc)
	return nil
}

// ReorderSections assigns order k to the section whose id is ids[k].
// Unknown ids are ignored and sections not listed keep their order, so a
// partial list may leave duplicate orders behind.
func (e *Editor) ReorderSections(doc *models.Document, ids []uuid.UUID) {
	for k, id := range ids {
		if i := doc.SectionIndex(id); i >= 0 {
			doc.Sections[i].Order = k
		}
	}
	e.touch(doc)
}

// SetColorScheme switches the theme to scheme, recomputing background and
// text colors from its palette.
func (e *Editor) SetColorScheme(doc *models.Document, scheme models.ColorScheme) error {
	if !scheme.Valid() {
		return fmt.Errorf("%w: color scheme %q must be light or dark", models.ErrInvalidInput, scheme)
	}
	doc.Theme = doc.Theme.WithScheme(scheme)
	e.touch(doc)
	return nil
}

// MarkPublished records a successful deployment.
func (e *Editor) MarkPublished(doc *models.Document, url string) {
	doc.IsPublished = true
	doc.PublishedURL = url
	e.touch(doc)
}
