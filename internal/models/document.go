// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Document is a generated landing page: the source profile, its ordered
// sections and the theme they are rendered with.
//
// Invariants: section ids are unique and UpdatedAt never precedes CreatedAt.
type Document struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	BusinessProfile BusinessProfile `json:"formData"`
	Sections        []Section       `json:"sections"`
	Theme           Theme           `json:"theme"`
	IsPublished     bool            `json:"isPublished"`
	PublishedURL    string          `json:"publishedUrl,omitempty"`
}

// Clone returns a deep copy that shares no sections or slices with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.BusinessProfile.KeyFeatures = append([]string(nil), d.BusinessProfile.KeyFeatures...)
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		out.Sections[i] = s.Clone()
	}
	return &out
}

// SectionIndex returns the position of the section with the given id, or -1.
func (d *Document) SectionIndex(id uuid.UUID) int {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// SortedSections returns the sections ordered by Order. Equal orders keep
// their list position.
func (d *Document) SortedSections() []Section {
	out := append([]Section(nil), d.Sections...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// NextOrder returns one more than the largest order in use, or 0 when the
// document has no sections.
func (d *Document) NextOrder() int {
	highest := -1
	for i, s := range d.Sections {
		if i == 0 || s.Order > highest {
			highest = s.Order
		}
	}
	return highest + 1
}
