// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

// TemplateStrategy synthesizes sections by interpolating profile fields
// into fixed copy. It performs no I/O and never fails for a valid profile.
type TemplateStrategy struct{}

// NewTemplateStrategy returns the deterministic strategy.
func NewTemplateStrategy() *TemplateStrategy {
	return &TemplateStrategy{}
}

func (*TemplateStrategy) Name() string { return "template" }

// Sections returns hero, about, features, testimonials and cta in that order.
func (t *TemplateStrategy) Sections(_ context.Context, p models.BusinessProfile) ([]models.Section, error) {
	return []models.Section{
		models.NewSection("Hero Section", heroContent(p)),
		models.NewSection("About Us", aboutContent(p, true)),
		models.NewSection("Features", featuresContent(p.KeyFeatures)),
		models.NewSection("Testimonials", testimonialsContent(p)),
		models.NewSection("Call to Action", ctaContent(p)),
	}, nil
}

// Section returns a single templated section. Features are limited to the
// first three key features; a custom section uses hint as its body when
// one is given.
func (t *TemplateStrategy) Section(_ context.Context, v models.Variant, p models.BusinessProfile, hint string) (models.Section, error) {
	switch v {
	case models.VariantHero:
		return models.NewSection("Hero Section", heroContent(p)), nil
	case models.VariantAbout:
		return models.NewSection("About Us", aboutContent(p, false)), nil
	case models.VariantFeatures:
		keys := p.KeyFeatures
		if len(keys) > 3 {
			keys = keys[:3]
		}
		return models.NewSection("Features", featuresContent(keys)), nil
	case models.VariantTestimonials:
		return models.NewSection("Testimonials", testimonialsContent(p)), nil
	case models.VariantCTA:
		return models.NewSection("Call to Action", ctaContent(p)), nil
	case models.VariantPricing:
		return models.NewSection("Pricing", pricingContent(p)), nil
	case models.VariantCustom:
		body := fmt.Sprintf("This is a custom section for %s. It can be customized to fit your specific needs and requirements.", p.BusinessName)
		if hint != "" {
			body = hint
		}
		return models.NewSection("Custom Section", models.CustomContent{
			Title:   "Custom Section",
			Content: body,
			Layout:  models.LayoutTextOnly,
		}), nil
	default:
		return models.Section{}, fmt.Errorf("%w: unknown section type %q", models.ErrInvalidInput, v)
	}
}

func heroContent(p models.BusinessProfile) models.HeroContent {
	return models.HeroContent{
		Headline:        fmt.Sprintf("Transform Your %s with %s", p.Industry, p.BusinessName),
		Subheadline:     fmt.Sprintf("The %s solution designed to help businesses thrive in today's competitive landscape.", p.Tone),
		CTAText:         "Get Started",
		CTALink:         "#contact",
		BackgroundImage: models.DefaultHeroImage,
	}
}

// aboutContent writes the about copy; long adds the closing sentence used
// on full documents.
func aboutContent(p models.BusinessProfile, long bool) models.AboutContent {
	body := fmt.Sprintf("At %s, we're passionate about delivering exceptional %s solutions that make a difference. "+
		"Our team of experts works tirelessly to ensure that every client receives personalized service and outstanding results.",
		p.BusinessName, p.Industry)
	if long {
		body += fmt.Sprintf(" With years of experience and a commitment to excellence, we've established ourselves as leaders in the %s industry.", p.Industry)
	}
	return models.AboutContent{
		Title:   "About Us",
		Content: body,
		Image:   models.DefaultAboutImage,
	}
}

func featuresContent(keys []string) models.FeaturesContent {
	features := make([]models.Feature, len(keys))
	for i, k := range keys {
		features[i] = models.Feature{
			ID:          uuid.NewString(),
			Title:       k,
			Description: fmt.Sprintf("Our %s solution provides exceptional value by streamlining processes and improving outcomes.", k),
			Icon:        iconFor(i),
		}
	}
	return models.FeaturesContent{
		Title:    "Our Key Features",
		Subtitle: "Discover what makes us different",
		Features: features,
	}
}

func testimonialsContent(p models.BusinessProfile) models.TestimonialsContent {
	return models.TestimonialsContent{
		Title: "What Our Clients Say",
		Testimonials: []models.Testimonial{
			{
				ID:      uuid.NewString(),
				Quote:   fmt.Sprintf("%s has completely transformed our approach to %s. The results speak for themselves.", p.BusinessName, p.Industry),
				Author:  "Jane Smith",
				Role:    "CEO",
				Company: "Acme Inc.",
			},
			{
				ID:      uuid.NewString(),
				Quote:   fmt.Sprintf("Working with %s has been a game-changer for our business. Highly recommended!", p.BusinessName),
				Author:  "John Doe",
				Role:    "Marketing Director",
				Company: "Global Corp",
			},
			{
				ID:      uuid.NewString(),
				Quote:   fmt.Sprintf("The team at %s consistently delivers exceptional results. We couldn't be happier.", p.BusinessName),
				Author:  "Sarah Johnson",
				Role:    "Operations Manager",
				Company: "Tech Solutions",
			},
		},
	}
}

func ctaContent(p models.BusinessProfile) models.CTAContent {
	return models.CTAContent{
		Title:           "Ready to Get Started?",
		Subtitle:        fmt.Sprintf("Join the many satisfied clients who have already transformed their %s with %s.", p.Industry, p.BusinessName),
		ButtonText:      "Contact Us Today",
		ButtonLink:      "#contact",
		BackgroundImage: models.DefaultCTAImage,
	}
}

func pricingContent(p models.BusinessProfile) models.PricingContent {
	tier := func(name, price, desc string, features []string, popular bool) models.PricingTier {
		return models.PricingTier{
			ID:          uuid.NewString(),
			Name:        name,
			Price:       price,
			Description: desc,
			Features:    features,
			CTAText:     "Choose " + name,
			Popular:     popular,
		}
	}
	keys := p.KeyFeatures
	return models.PricingContent{
		Title:    "Simple, Transparent Pricing",
		Subtitle: fmt.Sprintf("Pick the %s plan that fits your needs", p.BusinessName),
		Tiers: []models.PricingTier{
			tier("Starter", "$19/mo", "Everything you need to get going.", firstN(keys, 1), false),
			tier("Professional", "$49/mo", "For growing teams that need more.", firstN(keys, 3), true),
			tier("Enterprise", "Contact us", "Tailored solutions for large organizations.", append(firstN(keys, len(keys)), "Dedicated support"), false),
		},
	}
}

// firstN returns a copy of at most n leading elements of s.
func firstN(s []string, n int) []string {
	if n > len(s) {
		n = len(s)
	}
	return append([]string(nil), s[:n]...)
}
