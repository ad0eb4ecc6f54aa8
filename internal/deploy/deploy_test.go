// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package deploy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pagesmith/internal/models"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme Landing Page", "acme-landing-page"},
		{"  Hello, World! 2026 ", "hello-world-2026"},
		{"Café   Olé", "caf-ol"},
		{"multi---hyphen", "multi-hyphen"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"!!!", "site"},
		{"", "site"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := Slug(strings.Repeat("word ", 30))
	if len(long) > maxLabel || strings.HasSuffix(long, "-") {
		t.Errorf("long slug = %q (%d chars)", long, len(long))
	}
}

func TestSlugDeployer(t *testing.T) {
	doc := &models.Document{Title: "Acme Landing Page"}

	url, err := NewSlugDeployer("").Deploy(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://acme-landing-page.netlify.app" {
		t.Errorf("url = %q", url)
	}

	again, _ := NewSlugDeployer("").Deploy(context.Background(), doc)
	if again != url {
		t.Error("deploy URL is not deterministic")
	}

	url, _ = NewSlugDeployer(" .pages.example.com ").Deploy(context.Background(), doc)
	if url != "https://acme-landing-page.pages.example.com" {
		t.Errorf("custom domain url = %q", url)
	}
}

func TestSlugDeployerErrors(t *testing.T) {
	d := NewSlugDeployer("")
	if _, err := d.Deploy(context.Background(), &models.Document{}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("blank title: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Deploy(ctx, &models.Document{Title: "x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: %v", err)
	}
}
