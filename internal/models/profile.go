// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"regexp"
	"strings"
)

// hexColor accepts #rgb and #rrggbb colour literals.
var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// BrandColors holds the profile's brand palette. Secondary is optional.
type BrandColors struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// BusinessProfile is the set of business attributes collected by the
// multi-step form. It drives both generation strategies.
type BusinessProfile struct {
	BusinessName   string      `json:"businessName" yaml:"businessName"`
	Industry       string      `json:"industry" yaml:"industry"`
	Tone           string      `json:"tone" yaml:"tone"`
	BrandColors    BrandColors `json:"brandColors" yaml:"brandColors"`
	TargetAudience string      `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`
	Vision         string      `json:"vision,omitempty" yaml:"vision,omitempty"`
	KeyFeatures    []string    `json:"keyFeatures" yaml:"keyFeatures"`
}

// Normalized returns a copy with surrounding whitespace trimmed and blank
// key features removed.
func (p BusinessProfile) Normalized() BusinessProfile {
	out := p
	out.BusinessName = strings.TrimSpace(p.BusinessName)
	out.Industry = strings.TrimSpace(p.Industry)
	out.Tone = strings.TrimSpace(p.Tone)
	out.TargetAudience = strings.TrimSpace(p.TargetAudience)
	out.Vision = strings.TrimSpace(p.Vision)
	out.BrandColors.Primary = strings.TrimSpace(p.BrandColors.Primary)
	out.BrandColors.Secondary = strings.TrimSpace(p.BrandColors.Secondary)

	out.KeyFeatures = make([]string, 0, len(p.KeyFeatures))
	for _, f := range p.KeyFeatures {
		if f = strings.TrimSpace(f); f != "" {
			out.KeyFeatures = append(out.KeyFeatures, f)
		}
	}
	return out
}

// Validate checks that the profile can be submitted to generation.
// Returns an error wrapping ErrInvalidInput describing the first problem.
func (p BusinessProfile) Validate() error {
	n := p.Normalized()
	if n.BusinessName == "" {
		return fmt.Errorf("%w: business name is required", ErrInvalidInput)
	}
	if len(n.KeyFeatures) == 0 {
		return fmt.Errorf("%w: at least one key feature is required", ErrInvalidInput)
	}
	if n.BrandColors.Primary == "" {
		return fmt.Errorf("%w: primary brand color is required", ErrInvalidInput)
	}
	if !hexColor.MatchString(n.BrandColors.Primary) {
		return fmt.Errorf("%w: primary brand color %q is not a hex color", ErrInvalidInput, n.BrandColors.Primary)
	}
	if n.BrandColors.Secondary != "" && !hexColor.MatchString(n.BrandColors.Secondary) {
		return fmt.Errorf("%w: secondary brand color %q is not a hex color", ErrInvalidInput, n.BrandColors.Secondary)
	}
	return nil
}

// IsHexColor reports whether s is a #rgb or #rrggbb literal.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}
