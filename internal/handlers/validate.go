package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"pagesmith/internal/models"
)

// Request size limits, applied on top of the model's own validation.
const (
	maxTitleLen      = 300
	maxFieldLen      = 300
	maxVisionLen     = 2_000
	maxKeyFeatures   = 20
	maxPromptLen     = 1_000
	maxSections      = 50
	maxCustomBodyLen = 100_000
)

// invalid wraps msg as an invalid-input error.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidInput, msg)
}

// validateProfile checks profile field lengths and returns the first error
// found. Required fields and colours are checked by the profile itself.
func validateProfile(p models.BusinessProfile) error {
	for _, f := range []struct{ name, value string }{
		{"business name", p.BusinessName},
		{"industry", p.Industry},
		{"tone", p.Tone},
		{"target audience", p.TargetAudience},
	} {
		if utf8.RuneCountInString(f.value) > maxFieldLen {
			return invalid(fmt.Sprintf("%s is too long (max %d characters)", f.name, maxFieldLen))
		}
	}
	if utf8.RuneCountInString(p.Vision) > maxVisionLen {
		return invalid(fmt.Sprintf("vision is too long (max %d characters)", maxVisionLen))
	}
	if len(p.KeyFeatures) > maxKeyFeatures {
		return invalid(fmt.Sprintf("too many key features (max %d)", maxKeyFeatures))
	}
	for _, f := range p.KeyFeatures {
		if utf8.RuneCountInString(f) > maxFieldLen {
			return invalid(fmt.Sprintf("key feature is too long (max %d characters)", maxFieldLen))
		}
	}
	return p.Validate()
}

// validatePrompt checks the optional free-text instructions.
func validatePrompt(prompt string) error {
	if utf8.RuneCountInString(prompt) > maxPromptLen {
		return invalid(fmt.Sprintf("prompt is too long (max %d characters)", maxPromptLen))
	}
	return nil
}

// validateSectionTitle checks a section title from a PATCH request.
func validateSectionTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("section title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid(fmt.Sprintf("section title is too long (max %d characters)", maxTitleLen))
	}
	return nil
}

// validateDocumentLimits checks the sizes a client-supplied document may
// reach. Structural rules are enforced by document.Validate.
func validateDocumentLimits(doc *models.Document) error {
	if utf8.RuneCountInString(doc.Title) > maxTitleLen {
		return invalid(fmt.Sprintf("title is too long (max %d characters)", maxTitleLen))
	}
	if len(doc.Sections) > maxSections {
		return invalid(fmt.Sprintf("too many sections (max %d)", maxSections))
	}
	for _, s := range doc.Sections {
		if c, ok := s.Content.(models.CustomContent); ok &&
			utf8.RuneCountInString(c.Content)+utf8.RuneCountInString(c.CustomHTML) > maxCustomBodyLen {
			return invalid(fmt.Sprintf("custom section %s is too long (max %d characters)", s.ID, maxCustomBodyLen))
		}
	}
	return validateProfile(doc.BusinessProfile)
}
