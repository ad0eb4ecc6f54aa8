// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Section is one typed, ordered block of page content. Order is only used
// for relative sorting; gaps and ties are allowed (ties keep list position).
type Section struct {
	ID      uuid.UUID
	Variant Variant
	Title   string
	Content Content
	Order   int
}

// sectionJSON is the wire shape: the variant travels as "type" and the
// content is decoded according to it.
type sectionJSON struct {
	ID      uuid.UUID       `json:"id"`
	Type    Variant         `json:"type"`
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
	Order   int             `json:"order"`
}

// MarshalJSON encodes the section with its variant under "type".
func (s Section) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	if s.Content != nil {
		b, err := json.Marshal(s.Content)
		if err != nil {
			return nil, fmt.Errorf("marshal %s content: %w", s.Variant, err)
		}
		raw = b
	} else {
		raw = json.RawMessage("null")
	}
	return json.Marshal(sectionJSON{
		ID:      s.ID,
		Type:    s.Variant,
		Title:   s.Title,
		Content: raw,
		Order:   s.Order,
	})
}

// UnmarshalJSON decodes the content payload into the struct for "type".
// Unrecognized types are kept as UnknownContent.
func (s *Section) UnmarshalJSON(data []byte) error {
	var wire sectionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: decode section: %v", ErrInvalidInput, err)
	}
	content, err := DecodeContent(wire.Type, wire.Content)
	if err != nil {
		return err
	}
	*s = Section{
		ID:      wire.ID,
		Variant: wire.Type,
		Title:   wire.Title,
		Content: content,
		Order:   wire.Order,
	}
	return nil
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	if s.Content != nil {
		s.Content = cloneContent(s.Content)
	}
	return s
}

// NewSection builds a section with a fresh identifier. The variant is
// taken from the content so the two can never disagree.
func NewSection(title string, c Content) Section {
	if title == "" {
		title = c.Variant().Label()
	}
	return Section{
		ID:      uuid.New(),
		Variant: c.Variant(),
		Title:   title,
		Content: c,
	}
}
