// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func sampleDocument() *Document {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Document{
		ID:        uuid.New(),
		Title:     "Acme Landing Page",
		CreatedAt: now,
		UpdatedAt: now,
		BusinessProfile: BusinessProfile{
			BusinessName: "Acme",
			Industry:     "technology",
			Tone:         "professional",
			BrandColors:  BrandColors{Primary: "#3b82f6"},
			KeyFeatures:  []string{"Speed"},
		},
		Sections: []Section{
			{ID: uuid.New(), Variant: VariantHero, Title: "Hero", Order: 0,
				Content: HeroContent{Headline: "H", Subheadline: "S", CTAText: "Go", CTALink: "#contact"}},
			{ID: uuid.New(), Variant: VariantFeatures, Title: "Features", Order: 1,
				Content: FeaturesContent{Title: "F", Features: []Feature{{ID: "f1", Title: "Speed", Description: "d", Icon: "Zap"}}}},
			{ID: uuid.New(), Variant: "carousel", Title: "Mystery", Order: 2,
				Content: UnknownContent{Type: "carousel", Raw: json.RawMessage(`{"slides":[]}`)}},
		},
		Theme: DeriveTheme(BusinessProfile{BrandColors: BrandColors{Primary: "#3b82f6"}}),
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := sampleDocument()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(doc, &got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionUnmarshalBadContent(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"id":"`+uuid.NewString()+`","type":"hero","content":"oops"}`), &s)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()

	fc := clone.Sections[1].Content.(FeaturesContent)
	fc.Features[0].Title = "Changed"
	clone.BusinessProfile.KeyFeatures[0] = "Changed"

	orig := doc.Sections[1].Content.(FeaturesContent)
	if orig.Features[0].Title != "Speed" {
		t.Error("clone shares feature slice with original")
	}
	if doc.BusinessProfile.KeyFeatures[0] != "Speed" {
		t.Error("clone shares key features with original")
	}
}

func TestSortedSectionsIsStable(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	doc := &Document{Sections: []Section{
		{ID: a, Order: 2},
		{ID: b, Order: 1},
		{ID: c, Order: 1},
	}}

	got := doc.SortedSections()
	want := []uuid.UUID{b, c, a}
	for i, s := range got {
		if s.ID != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, s.ID, want[i])
		}
	}
}

func TestNextOrder(t *testing.T) {
	tests := []struct {
		name   string
		orders []int
		want   int
	}{
		{"empty", nil, 0},
		{"dense", []int{0, 1, 2}, 3},
		{"gaps", []int{0, 7, 3}, 8},
		{"negative", []int{-4, -2}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{}
			for _, o := range tt.orders {
				doc.Sections = append(doc.Sections, Section{ID: uuid.New(), Order: o})
			}
			if got := doc.NextOrder(); got != tt.want {
				t.Errorf("NextOrder() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestThemeWithScheme(t *testing.T) {
	theme := DeriveTheme(BusinessProfile{BrandColors: BrandColors{Primary: "#3b82f6", Secondary: "#93c5fd"}})

	dark := theme.WithScheme(SchemeDark)
	if dark.Colors.Background != "#121212" || dark.Colors.Text != "#ffffff" {
		t.Errorf("dark palette = %s/%s", dark.Colors.Background, dark.Colors.Text)
	}
	if dark.Colors.Primary != "#3b82f6" || dark.Colors.Secondary != "#93c5fd" {
		t.Errorf("brand colors changed: %+v", dark.Colors)
	}

	light := dark.WithScheme(SchemeLight)
	if light.Colors.Background != "#ffffff" || light.Colors.Text != "#111827" {
		t.Errorf("light palette = %s/%s", light.Colors.Background, light.Colors.Text)
	}
}

func TestThemeValidate(t *testing.T) {
	ok := DeriveTheme(BusinessProfile{BrandColors: BrandColors{Primary: "#fff"}})
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	badColor := ok
	badColor.Colors.Accent = "red; } body { display:none"
	if err := badColor.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad accent: got %v", err)
	}

	badFont := ok
	badFont.Fonts.Body = "Inter; color: red"
	if err := badFont.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad font: got %v", err)
	}

	badScheme := ok
	badScheme.ColorScheme = "sepia"
	if err := badScheme.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad scheme: got %v", err)
	}
}

func TestProfileValidate(t *testing.T) {
	valid := BusinessProfile{
		BusinessName: "Acme",
		BrandColors:  BrandColors{Primary: "#3b82f6"},
		KeyFeatures:  []string{"", " Speed "},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if got := valid.Normalized().KeyFeatures; len(got) != 1 || got[0] != "Speed" {
		t.Errorf("Normalized().KeyFeatures = %q", got)
	}

	tests := []struct {
		name   string
		mutate func(p *BusinessProfile)
	}{
		{"blank name", func(p *BusinessProfile) { p.BusinessName = "  " }},
		{"no features", func(p *BusinessProfile) { p.KeyFeatures = []string{" ", ""} }},
		{"bad primary", func(p *BusinessProfile) { p.BrandColors.Primary = "blue" }},
		{"bad secondary", func(p *BusinessProfile) { p.BrandColors.Secondary = "#12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.KeyFeatures = append([]string(nil), valid.KeyFeatures...)
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
}
