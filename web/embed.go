// Package web embeds the templates used to compile landing pages: the page
// skeleton, one fragment per section variant, the themed stylesheet and
// the behavior script shipped with every export.
package web

import "embed"

// TemplatesFS holds web/templates. Files ending in .html.tmpl are parsed
// with html/template, styles.css.tmpl with text/template, and script.js
// is copied as is.
//
//go:embed templates
var TemplatesFS embed.FS
