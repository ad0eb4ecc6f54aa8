// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Variant identifies a section's content shape. The set is closed: every
// consumer switches over all seven values and treats anything else as a no-op.
type Variant string

const (
	VariantHero         Variant = "hero"
	VariantAbout        Variant = "about"
	VariantFeatures     Variant = "features"
	VariantTestimonials Variant = "testimonials"
	VariantCTA          Variant = "cta"
	VariantPricing      Variant = "pricing"
	VariantCustom       Variant = "custom"
)

// Variants lists every recognized variant.
var Variants = []Variant{
	VariantHero, VariantAbout, VariantFeatures, VariantTestimonials,
	VariantCTA, VariantPricing, VariantCustom,
}

// StandardVariants is the fixed sequence produced by full-document generation.
var StandardVariants = []Variant{
	VariantHero, VariantAbout, VariantFeatures, VariantTestimonials, VariantCTA,
}

// Valid reports whether v is one of the recognized variants.
func (v Variant) Valid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// Label returns a display name such as "Hero" or "Cta".
func (v Variant) Label() string {
	if v == "" {
		return ""
	}
	s := string(v)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Defaults for optional content fields, applied when a section is rendered.
const (
	DefaultHeroImage  = "https://images.pexels.com/photos/3183150/pexels-photo-3183150.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"
	DefaultAboutImage = "https://images.pexels.com/photos/3184339/pexels-photo-3184339.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"
	DefaultCTAImage   = "https://images.pexels.com/photos/7130560/pexels-photo-7130560.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2"

	// DefaultIcon is used for feature cards without an icon tag.
	DefaultIcon = "Star"
)

// CustomLayout selects how a custom section is laid out.
type CustomLayout string

const (
	LayoutTextOnly   CustomLayout = "text-only"
	LayoutTextImage  CustomLayout = "text-image"
	LayoutCustomHTML CustomLayout = "custom-html"
)

// Content is the variant-specific payload of a section. Implementations are
// the *Content structs in this file; UnknownContent carries payloads whose
// variant is not recognized.
type Content interface {
	Variant() Variant
	// Validate reports missing required fields, wrapping ErrInvalidInput.
	Validate() error
}

type HeroContent struct {
	Headline        string `json:"headline"`
	Subheadline     string `json:"subheadline"`
	CTAText         string `json:"ctaText"`
	CTALink         string `json:"ctaLink"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

type AboutContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

// Feature is one card of a features section.
type Feature struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type FeaturesContent struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Features []Feature `json:"features"`
}

// Testimonial is one quote of a testimonials section.
type Testimonial struct {
	ID      string `json:"id"`
	Quote   string `json:"quote"`
	Author  string `json:"author"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Avatar  string `json:"avatar,omitempty"`
}

type TestimonialsContent struct {
	Title        string        `json:"title"`
	Testimonials []Testimonial `json:"testimonials"`
}

type CTAContent struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle,omitempty"`
	ButtonText      string `json:"buttonText"`
	ButtonLink      string `json:"buttonLink"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
}

// PricingTier is one column of a pricing table.
type PricingTier struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	CTAText     string   `json:"ctaText"`
	Popular     bool     `json:"popular,omitempty"`
}

type PricingContent struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Tiers    []PricingTier `json:"tiers"`
}

// CustomContent is free-form content. CustomHTML is only rendered when
// Layout is LayoutCustomHTML.
type CustomContent struct {
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Layout     CustomLayout `json:"layout"`
	Image      string       `json:"image,omitempty"`
	CustomHTML string       `json:"customHtml,omitempty"`
}

// UnknownContent preserves the payload of a section whose variant is not
// recognized so that documents round-trip unchanged. It renders as nothing.
type UnknownContent struct {
	Type Variant
	Raw  json.RawMessage
}

func (HeroContent) Variant() Variant         { return VariantHero }
func (AboutContent) Variant() Variant        { return VariantAbout }
func (FeaturesContent) Variant() Variant     { return VariantFeatures }
func (TestimonialsContent) Variant() Variant { return VariantTestimonials }
func (CTAContent) Variant() Variant          { return VariantCTA }
func (PricingContent) Variant() Variant      { return VariantPricing }
func (CustomContent) Variant() Variant       { return VariantCustom }
func (u UnknownContent) Variant() Variant    { return u.Type }

func (c HeroContent) Validate() error {
	return required(VariantHero, "headline", c.Headline, "ctaText", c.CTAText)
}

func (c AboutContent) Validate() error {
	return required(VariantAbout, "title", c.Title, "content", c.Content)
}

func (c FeaturesContent) Validate() error {
	if err := required(VariantFeatures, "title", c.Title); err != nil {
		return err
	}
	for i, f := range c.Features {
		if strings.TrimSpace(f.Title) == "" {
			return fmt.Errorf("%w: features[%d] has no title", ErrInvalidInput, i)
		}
	}
	return nil
}

func (c TestimonialsContent) Validate() error {
	if err := required(VariantTestimonials, "title", c.Title); err != nil {
		return err
	}
	for i, t := range c.Testimonials {
		if strings.TrimSpace(t.Quote) == "" || strings.TrimSpace(t.Author) == "" {
			return fmt.Errorf("%w: testimonials[%d] needs a quote and an author", ErrInvalidInput, i)
		}
	}
	return nil
}

func (c CTAContent) Validate() error {
	return required(VariantCTA, "title", c.Title, "buttonText", c.ButtonText)
}

func (c PricingContent) Validate() error {
	if err := required(VariantPricing, "title", c.Title); err != nil {
		return err
	}
	for i, t := range c.Tiers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: tiers[%d] has no name", ErrInvalidInput, i)
		}
	}
	return nil
}

func (c CustomContent) Validate() error {
	if err := required(VariantCustom, "title", c.Title); err != nil {
		return err
	}
	switch c.Layout {
	case LayoutTextOnly, LayoutTextImage, LayoutCustomHTML, "":
		return nil
	default:
		return fmt.Errorf("%w: custom layout %q is not supported", ErrInvalidInput, c.Layout)
	}
}

func (u UnknownContent) Validate() error {
	return fmt.Errorf("%w: unrecognized section type %q", ErrInvalidInput, u.Type)
}

// MarshalJSON emits the preserved payload verbatim.
func (u UnknownContent) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

// required checks name/value pairs and reports the first blank value.
func required(v Variant, pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s section requires %s", ErrInvalidInput, v, pairs[i])
		}
	}
	return nil
}

// DecodeContent parses raw JSON into the content type for v. Unrecognized
// variants decode into UnknownContent and never fail.
func DecodeContent(v Variant, raw json.RawMessage) (Content, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = json.RawMessage("{}")
	}

	var (
		c   Content
		err error
	)
	switch v {
	case VariantHero:
		var hc HeroContent
		err = json.Unmarshal(raw, &hc)
		c = hc
	case VariantAbout:
		var ac AboutContent
		err = json.Unmarshal(raw, &ac)
		c = ac
	case VariantFeatures:
		var fc FeaturesContent
		err = json.Unmarshal(raw, &fc)
		c = fc
	case VariantTestimonials:
		var tc TestimonialsContent
		err = json.Unmarshal(raw, &tc)
		c = tc
	case VariantCTA:
		var cc CTAContent
		err = json.Unmarshal(raw, &cc)
		c = cc
	case VariantPricing:
		var pc PricingContent
		err = json.Unmarshal(raw, &pc)
		c = pc
	case VariantCustom:
		var cc CustomContent
		err = json.Unmarshal(raw, &cc)
		c = cc
	default:
		return UnknownContent{Type: v, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s content: %v", ErrInvalidInput, v, err)
	}
	return c, nil
}

// MergeContent overlays the top-level keys of partial onto c and decodes the
// result back into c's variant. Keys absent from partial keep their values.
func MergeContent(c Content, partial map[string]json.RawMessage) (Content, error) {
	current, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(current, &fields); err != nil || fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	for k, v := range partial {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal merged content: %w", err)
	}
	return DecodeContent(c.Variant(), merged)
}

// cloneContent returns a copy of c that shares no slices with it.
func cloneContent(c Content) Content {
	switch v := c.(type) {
	case FeaturesContent:
		v.Features = append([]Feature(nil), v.Features...)
		return v
	case TestimonialsContent:
		v.Testimonials = append([]Testimonial(nil), v.Testimonials...)
		return v
	case PricingContent:
		tiers := make([]PricingTier, len(v.Tiers))
		for i, t := range v.Tiers {
			t.Features = append([]string(nil), t.Features...)
			tiers[i] = t
		}
		v.Tiers = tiers
		return v
	case UnknownContent:
		v.Raw = append(json.RawMessage(nil), v.Raw...)
		return v
	default:
		return c
	}
}
