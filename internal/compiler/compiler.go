// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compiler renders a Document into the three files of a static
// site: index.html, styles.css and script.js. Compilation is a pure
// function of the document and the copyright year.
package compiler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"strings"
	texttemplate "text/template"
	"time"

	"pagesmith/internal/markdown"
	"pagesmith/internal/models"
	"pagesmith/web"
)

// File names of a compiled site.
const (
	MarkupFile     = "index.html"
	StylesheetFile = "styles.css"
	ScriptFile     = "script.js"
)

// Files lists the artifact names in a stable order.
var Files = []string{MarkupFile, StylesheetFile, ScriptFile}

// Artifacts is the output of one compilation.
type Artifacts struct {
	Markup     string
	Stylesheet string
	Script     string
}

// File returns the artifact with the given file name.
func (a Artifacts) File(name string) (string, bool) {
	switch name {
	case MarkupFile:
		return a.Markup, true
	case StylesheetFile:
		return a.Stylesheet, true
	case ScriptFile:
		return a.Script, true
	}
	return "", false
}

// ContentType returns the MIME type served for an artifact file name.
func ContentType(name string) string {
	switch name {
	case MarkupFile:
		return "text/html; charset=utf-8"
	case StylesheetFile:
		return "text/css; charset=utf-8"
	case ScriptFile:
		return "text/javascript; charset=utf-8"
	}
	return "application/octet-stream"
}

const (
	stylesheetLink = `<link rel="stylesheet" href="styles.css">`
	scriptTag      = `<script src="script.js"></script>`
)

// Preview returns the markup with the stylesheet and script inlined, for
// serving as a single self-contained document.
func (a Artifacts) Preview() string {
	out := strings.Replace(a.Markup, stylesheetLink, "<style>\n"+a.Stylesheet+"</style>", 1)
	return strings.Replace(out, scriptTag, "<script>\n"+a.Script+"</script>", 1)
}

var (
	pageTmpl     *template.Template
	sectionTmpls *template.Template
	styleTmpl    *texttemplate.Template
	script       string
)

func init() {
	funcs := template.FuncMap{
		"markdown": markdown.MustHTML,
		"raw":      func(s string) template.HTML { return template.HTML(s) },
		"icon":     iconGlyph,
	}
	pageTmpl = template.Must(template.ParseFS(web.TemplatesFS, "templates/page.html.tmpl"))
	sectionTmpls = template.Must(template.New("sections").Funcs(funcs).ParseFS(web.TemplatesFS, "templates/sections.html.tmpl"))
	styleTmpl = texttemplate.Must(texttemplate.ParseFS(web.TemplatesFS, "templates/styles.css.tmpl"))

	b, err := fs.ReadFile(web.TemplatesFS, "templates/script.js")
	if err != nil {
		panic(fmt.Sprintf("compiler: read script: %v", err))
	}
	script = string(b)
}

// Compile renders doc with the current year in the footer.
func Compile(doc *models.Document) Artifacts {
	return CompileAt(doc, time.Now().Year())
}

// CompileAt renders doc with year in the footer. Sections are emitted in
// ascending order; sections of an unrecognized type produce no markup.
func CompileAt(doc *models.Document, year int) Artifacts {
	return Artifacts{
		Markup:     renderPage(doc, year),
		Stylesheet: renderStylesheet(doc.Theme),
		Script:     script,
	}
}

// Script returns the behavior script. It is the same for every document.
func Script() string {
	return script
}

type navLink struct {
	Target string
	Label  string
}

type pageData struct {
	Title    string
	Logo     string
	Dark     bool
	Nav      []navLink
	Sections []template.HTML
	Year     int
}

func renderPage(doc *models.Document, year int) string {
	sorted := doc.SortedSections()

	data := pageData{
		Title: doc.Title,
		Logo:  logo(doc.Title),
		Dark:  doc.Theme.ColorScheme == models.SchemeDark,
		Year:  year,
	}

	seen := make(map[models.Variant]bool)
	for _, s := range sorted {
		frag := renderSection(s)
		if frag == "" {
			continue
		}
		data.Sections = append(data.Sections, frag)
		if !seen[s.Variant] {
			seen[s.Variant] = true
			data.Nav = append(data.Nav, navLink{Target: s.ID.String(), Label: navLabel(s)})
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		slog.Error("render page failed", "document", doc.ID, "error", err)
		return ""
	}
	return buf.String()
}

// logo is the first word of the title.
func logo(title string) string {
	if f := strings.Fields(title); len(f) > 0 {
		return f[0]
	}
	return ""
}

func navLabel(s models.Section) string {
	switch s.Variant {
	case models.VariantHero:
		return "Home"
	case models.VariantAbout:
		return "About"
	case models.VariantFeatures:
		return "Features"
	case models.VariantTestimonials:
		return "Testimonials"
	case models.VariantCTA:
		return "Contact"
	case models.VariantPricing:
		return "Pricing"
	}
	if s.Title != "" {
		return s.Title
	}
	return s.Variant.Label()
}

type sectionData struct {
	ID      string
	Content models.Content
}

// renderSection executes the fragment for the section's variant. Unknown
// variants and sections without content render as nothing.
func renderSection(s models.Section) template.HTML {
	c := withDefaults(s.Content)
	if c == nil {
		return ""
	}
	if _, unknown := c.(models.UnknownContent); unknown {
		return ""
	}
	tmpl := sectionTmpls.Lookup(string(c.Variant()))
	if tmpl == nil {
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, sectionData{ID: s.ID.String(), Content: c}); err != nil {
		slog.Error("render section failed", "section", s.ID, "type", s.Variant, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}

// withDefaults fills optional fields that have a render-time default.
func withDefaults(c models.Content) models.Content {
	switch v := c.(type) {
	case models.HeroContent:
		if v.BackgroundImage == "" {
			v.BackgroundImage = models.DefaultHeroImage
		}
		return v
	case models.AboutContent:
		if v.Image == "" {
			v.Image = models.DefaultAboutImage
		}
		return v
	case models.CTAContent:
		if v.BackgroundImage == "" {
			v.BackgroundImage = models.DefaultCTAImage
		}
		return v
	case models.CustomContent:
		switch v.Layout {
		case models.LayoutTextImage:
		case models.LayoutCustomHTML:
			if v.CustomHTML == "" {
				v.CustomHTML = v.Content
			}
		default:
			v.Layout = models.LayoutTextOnly
		}
		return v
	}
	return c
}

// iconGlyph maps the icon tags used by generated feature cards to a
// character that renders without an icon font.
func iconGlyph(name string) string {
	switch name {
	case "Zap":
		return "⚡"
	case "Shield":
		return "🛡"
	case "BarChart":
		return "📊"
	case "Clock":
		return "⏱"
	case "Users":
		return "👥"
	}
	return "★"
}

type styleData struct {
	Primary, Secondary, Background, Text, Accent string
	HeadingFont, BodyFont                        string
}

// Fallbacks for optional or malformed theme values.
const (
	defaultSecondary = "#93c5fd"
	defaultAccent    = "#f97316"
)

func renderStylesheet(t models.Theme) string {
	palette := t.ColorScheme.Palette()
	data := styleData{
		Primary:     color(t.Colors.Primary, "#3b82f6"),
		Secondary:   color(t.Colors.Secondary, defaultSecondary),
		Background:  color(t.Colors.Background, palette.Background),
		Text:        color(t.Colors.Text, palette.Text),
		Accent:      color(t.Colors.Accent, defaultAccent),
		HeadingFont: font(t.Fonts.Heading),
		BodyFont:    font(t.Fonts.Body),
	}

	var buf bytes.Buffer
	if err := styleTmpl.Execute(&buf, data); err != nil {
		slog.Error("render stylesheet failed", "error", err)
		return ""
	}
	return buf.String()
}

// color returns v when it is a hex literal and def otherwise, so that a
// malformed theme cannot inject rules into the stylesheet.
func color(v, def string) string {
	if models.IsHexColor(v) {
		return v
	}
	return def
}

func font(v string) string {
	if strings.TrimSpace(v) == "" || strings.ContainsAny(v, ";{}<>\\") {
		return models.DefaultFont
	}
	return v
}
