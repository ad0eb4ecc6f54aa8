// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"fmt"
	"strings"

	"pagesmith/internal/models"
)

// maxHintLen caps the free-text instructions embedded in a section prompt.
const maxHintLen = 1000

// sectionShapes is the JSON shape requested for each variant.
var sectionShapes = map[models.Variant]string{
	models.VariantHero: `{
  "type": "hero",
  "content": {"headline": "", "subheadline": "", "ctaText": "", "ctaLink": ""}
}`,
	models.VariantAbout: `{
  "type": "about",
  "content": {"title": "", "content": ""}
}`,
	models.VariantFeatures: `{
  "type": "features",
  "content": {
    "title": "", "subtitle": "",
    "features": [{"title": "", "description": "", "icon": ""}]
  }
}`,
	models.VariantTestimonials: `{
  "type": "testimonials",
  "content": {
    "title": "",
    "testimonials": [{"quote": "", "author": "", "role": "", "company": ""}]
  }
}`,
	models.VariantCTA: `{
  "type": "cta",
  "content": {"title": "", "subtitle": "", "buttonText": "", "buttonLink": ""}
}`,
	models.VariantPricing: `{
  "type": "pricing",
  "content": {
    "title": "", "subtitle": "",
    "tiers": [{"name": "", "price": "", "description": "", "features": [""], "ctaText": "", "popular": false}]
  }
}`,
	models.VariantCustom: `{
  "type": "custom",
  "content": {"title": "", "content": "", "layout": "text-only"}
}`,
}

// writeProfile describes the business in the form both prompts share.
func writeProfile(sb *strings.Builder, p models.BusinessProfile) {
	audience := p.TargetAudience
	if audience == "" {
		audience = "general customers"
	}
	vision := p.Vision
	if vision == "" {
		vision = "Not specified"
	}
	fmt.Fprintf(sb, "The tone should be %s.\n", p.Tone)
	fmt.Fprintf(sb, "The key features of the business are: %s.\n", strings.Join(p.KeyFeatures, ", "))
	fmt.Fprintf(sb, "The target audience is: %s.\n", audience)
	fmt.Fprintf(sb, "Business vision: %s.\n\n", vision)
}

func buildDocumentPrompt(p models.BusinessProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a landing page for a %s business called %q.\n", p.Industry, p.BusinessName)
	writeProfile(&sb, p)

	sb.WriteString("Generate the following sections for the landing page:\n")
	sb.WriteString("1. Hero section with headline, subheadline, and call-to-action text\n")
	sb.WriteString("2. About section with company description\n")
	sb.WriteString("3. Features section with descriptions for each key feature\n")
	sb.WriteString("4. Testimonials section with 3 fictional customer quotes\n")
	sb.WriteString("5. Call-to-action section\n\n")

	sb.WriteString("Format the response as a JSON object that follows this structure:\n")
	sb.WriteString("{\n\"sections\": [\n")
	for i, v := range models.StandardVariants {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString(sectionShapes[v])
	}
	sb.WriteString("\n]\n}\n")
	return sb.String()
}

func buildSectionPrompt(v models.Variant, p models.BusinessProfile, hint string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a %s section for a landing page for a %s business called %q.\n", v, p.Industry, p.BusinessName)
	writeProfile(&sb, p)

	if hint != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", truncate(hint, maxHintLen))
	}

	sb.WriteString("Format the response as a JSON object that follows this structure:\n")
	sb.WriteString(sectionShapes[v])
	sb.WriteString("\n")
	return sb.String()
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
