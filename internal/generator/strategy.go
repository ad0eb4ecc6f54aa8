// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"

	"pagesmith/internal/models"
)

// Strategy produces sections from a validated, normalized profile.
type Strategy interface {
	// Name identifies the strategy in logs ("ai" or "template").
	Name() string

	// Sections returns the standard sections of a full document.
	Sections(ctx context.Context, p models.BusinessProfile) ([]models.Section, error)

	// Section returns a single section of variant v. hint may be empty.
	Section(ctx context.Context, v models.Variant, p models.BusinessProfile, hint string) (models.Section, error)
}

// IconSet is cycled through by position when feature cards are synthesized.
var IconSet = []string{"Zap", "Shield", "BarChart", "Clock", "Users"}

// iconFor returns the icon for the feature at position i.
func iconFor(i int) string {
	return IconSet[i%len(IconSet)]
}
