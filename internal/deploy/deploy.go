// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package deploy publishes documents. The only implementation derives a
// stable URL from the document title; no site is actually uploaded.
package deploy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"pagesmith/internal/models"
)

// DefaultDomain is the host suffix used when none is configured.
const DefaultDomain = "netlify.app"

// Deployer publishes a document and returns its public URL.
type Deployer interface {
	Deploy(ctx context.Context, doc *models.Document) (string, error)
}

// SlugDeployer returns https://<slug(title)>.<Domain>.
type SlugDeployer struct {
	Domain string
}

// NewSlugDeployer creates a deployer for domain, or DefaultDomain when
// domain is empty.
func NewSlugDeployer(domain string) *SlugDeployer {
	domain = strings.Trim(strings.TrimSpace(domain), ".")
	if domain == "" {
		domain = DefaultDomain
	}
	return &SlugDeployer{Domain: domain}
}

func (d *SlugDeployer) Deploy(ctx context.Context, doc *models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(doc.Title) == "" {
		return "", fmt.Errorf("%w: document title is required to deploy", models.ErrInvalidInput)
	}
	return fmt.Sprintf("https://%s.%s", Slug(doc.Title), d.Domain), nil
}

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// maxLabel is the longest DNS label.
const maxLabel = 63

// Slug turns a title into a DNS label: "Acme Landing Page" becomes
// "acme-landing-page". Titles without any usable character yield "site".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLabel {
		s = strings.TrimRight(s[:maxLabel], "-")
	}
	if s == "" {
		return "site"
	}
	return s
}
