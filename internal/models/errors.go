// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Error kinds shared by every layer. Callers wrap them with fmt.Errorf("...: %w")
// and match with errors.Is.
var (
	// ErrInvalidInput marks a malformed profile, document or request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a missing document, section or export.
	ErrNotFound = errors.New("not found")
)
