// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// ColorScheme selects one of the two fixed background/text palettes.
type ColorScheme string

const (
	SchemeLight ColorScheme = "light"
	SchemeDark  ColorScheme = "dark"
)

// DefaultFont is used for both headings and body text of generated themes.
const DefaultFont = "Inter, sans-serif"

// Palette is the background/text pair applied by a color scheme.
type Palette struct {
	Background string
	Text       string
}

// palettes maps each scheme to its fixed background and text colors.
var palettes = map[ColorScheme]Palette{
	SchemeLight: {Background: "#ffffff", Text: "#111827"},
	SchemeDark:  {Background: "#121212", Text: "#ffffff"},
}

// Valid reports whether s is light or dark.
func (s ColorScheme) Valid() bool {
	_, ok := palettes[s]
	return ok
}

// Palette returns the fixed palette for s. Unknown schemes get the light one.
func (s ColorScheme) Palette() Palette {
	if p, ok := palettes[s]; ok {
		return p
	}
	return palettes[SchemeLight]
}

// ThemeColors are hex color literals. Secondary and Accent are optional.
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary,omitempty"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent,omitempty"`
}

type ThemeFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Theme holds the color and font parameters applied across a document.
type Theme struct {
	ColorScheme ColorScheme `json:"colorScheme"`
	Colors      ThemeColors `json:"colors"`
	Fonts       ThemeFonts  `json:"fonts"`
}

// DeriveTheme builds the initial light theme from a profile's brand colors.
func DeriveTheme(p BusinessProfile) Theme {
	light := SchemeLight.Palette()
	return Theme{
		ColorScheme: SchemeLight,
		Colors: ThemeColors{
			Primary:    p.BrandColors.Primary,
			Secondary:  p.BrandColors.Secondary,
			Background: light.Background,
			Text:       light.Text,
		},
		Fonts: ThemeFonts{Heading: DefaultFont, Body: DefaultFont},
	}
}

// WithScheme returns a copy switched to scheme with background and text
// recomputed from the palette. Primary, secondary and accent are kept.
func (t Theme) WithScheme(scheme ColorScheme) Theme {
	p := scheme.Palette()
	t.ColorScheme = scheme
	t.Colors.Background = p.Background
	t.Colors.Text = p.Text
	return t
}

// Validate checks the theme before its values are substituted into a
// stylesheet: colors must be hex literals and fonts must not break out of
// a CSS declaration.
func (t Theme) Validate() error {
	if !t.ColorScheme.Valid() {
		return fmt.Errorf("%w: color scheme %q must be light or dark", ErrInvalidInput, t.ColorScheme)
	}
	colors := []struct {
		name, value string
		optional    bool
	}{
		{"primary", t.Colors.Primary, false},
		{"secondary", t.Colors.Secondary, true},
		{"background", t.Colors.Background, false},
		{"text", t.Colors.Text, false},
		{"accent", t.Colors.Accent, true},
	}
	for _, c := range colors {
		if c.optional && c.value == "" {
			continue
		}
		if !IsHexColor(c.value) {
			return fmt.Errorf("%w: theme %s color %q is not a hex color", ErrInvalidInput, c.name, c.value)
		}
	}
	for _, f := range []string{t.Fonts.Heading, t.Fonts.Body} {
		if strings.TrimSpace(f) == "" || strings.ContainsAny(f, ";{}<>\\") {
			return fmt.Errorf("%w: font family %q is not allowed", ErrInvalidInput, f)
		}
	}
	return nil
}
