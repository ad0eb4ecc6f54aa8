// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package document assembles generated sections into a Document and checks
// documents that arrive from clients.
package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

// Title returns the document title derived from a profile.
func Title(p models.BusinessProfile) string {
	return p.BusinessName + " Landing Page"
}

// Assemble wraps sections into a new, unpublished document. The caller has
// already assigned section orders.
func Assemble(profile models.BusinessProfile, sections []models.Section, theme models.Theme, now time.Time) *models.Document {
	now = now.UTC()
	if sections == nil {
		sections = []models.Section{}
	}
	return &models.Document{
		ID:              uuid.New(),
		Title:           Title(profile),
		CreatedAt:       now,
		UpdatedAt:       now,
		BusinessProfile: profile,
		Sections:        sections,
		Theme:           theme,
	}
}

// Validate checks the structural invariants of a document received from a
// client. Sections of unrecognized type are allowed and kept as they are.
func Validate(doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is required", models.ErrInvalidInput)
	}
	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("%w: document title is required", models.ErrInvalidInput)
	}
	if err := doc.BusinessProfile.Validate(); err != nil {
		return err
	}
	if err := doc.Theme.Validate(); err != nil {
		return err
	}
	if !doc.CreatedAt.IsZero() && doc.UpdatedAt.Before(doc.CreatedAt) {
		return fmt.Errorf("%w: updatedAt precedes createdAt", models.ErrInvalidInput)
	}

	seen := make(map[uuid.UUID]struct{}, len(doc.Sections))
	for i, s := range doc.Sections {
		if s.ID == uuid.Nil {
			return fmt.Errorf("%w: section %d has no id", models.ErrInvalidInput, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate section id %s", models.ErrInvalidInput, s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.Content == nil {
			return fmt.Errorf("%w: section %s has no content", models.ErrInvalidInput, s.ID)
		}
		if s.Content.Variant() != s.Variant {
			return fmt.Errorf("%w: section %s content does not match type %q", models.ErrInvalidInput, s.ID, s.Variant)
		}
	}
	return nil
}
