// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders the body text of custom sections. Section copy
// is user- or model-written, so the output is sanitized before it is
// handed to html/template as trusted markup.
package markdown

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
		html.WithUnsafe(), // raw HTML is removed by the policy below
	),
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitizer allows the UGC subset plus the inline styles emitted by the
// syntax highlighter.
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("style").OnElements("pre", "span", "code")
	})
	return policy
}

// ToHTML converts Markdown source into sanitized HTML.
func ToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer().SanitizeBytes(buf.Bytes())), nil
}

// MustHTML is ToHTML for template functions: on a conversion error the
// source is returned escaped.
func MustHTML(source string) template.HTML {
	out, err := ToHTML(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return out
}
