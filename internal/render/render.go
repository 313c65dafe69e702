// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the blog. It supports
// full-page and fragment rendering; fragment requests (sent by the live
// search and editor scripts) receive only the "content" block.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"techblog/internal/comments"
	"techblog/internal/markdown"
	"techblog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// FragmentHeader marks requests that want only the content block.
const FragmentHeader = "X-Fragment"

// layoutFiles are parsed into every page.
var layoutFiles = []string{"templates/base.html", "templates/partials.html"}

// PageData holds all data passed to page templates.
type PageData struct {
	Title      string            // Page title for <title> tag
	Section    string            // Active navigation entry (category slug, "dashboard", ...)
	CSRFToken  string            // Token for forms and the meta tag read by scripts
	Auth       models.AuthInfo   // Visitor identity (zero when anonymous)
	Dashboard  bool              // Whether the dashboard is available
	Categories []models.Category // Navigation entries
	Data       map[string]any    // Page-specific data
	Flashes    []Flash           // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "info"
	Message string
}

// Renderer holds the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New parses every page template paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"markdown": renderMarkdown,
			"excerpt":  markdown.Excerpt,
			"flatten":  comments.Flatten,
			"count":    comments.CountAll,
			"year":     func() int { return time.Now().Year() },
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			"indent":     func(depth int) int { return depth * 24 },
			"fieldError": fieldError,
			"join":       strings.Join,
		},
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		if isLayout(page) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), ".html")

		files := append(append([]string{}, layoutFiles...), page)
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

func isLayout(path string) bool {
	for _, f := range layoutFiles {
		if f == path {
			return true
		}
	}
	return false
}

// renderMarkdown converts article markdown to HTML. Raw HTML in the source
// is dropped by the converter, so the result is safe to embed.
func renderMarkdown(src string) template.HTML {
	html, err := markdown.ToHTML(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(html)
}

// fieldError looks up a validation message; a missing map yields "".
func fieldError(errs any, field string) string {
	m, ok := errs.(map[string]string)
	if !ok {
		return ""
	}
	return m[field]
}

// Has reports whether a page template with the given name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Bytes renders a full page into memory, for responses that are cached.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	return rn.execute(name, "base.html", data)
}

// Page renders a full page, or only its content block for fragment
// requests, with the given status code.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	block := "base.html"
	if IsFragment(r) {
		block = "content"
	}

	body, err := rn.execute(name, block, data)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("render template")
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// execute renders into a buffer first so a template failure never leaves
// a half-written response.
func (rn *Renderer) execute(name, block string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
	if data.Categories == nil {
		data.Categories = models.Categories
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return nil, fmt.Errorf("execute %s/%s: %w", name, block, err)
	}
	return buf.Bytes(), nil
}

// IsFragment reports whether the request asked for the content block only.
func IsFragment(r *http.Request) bool {
	return r.Header.Get(FragmentHeader) == "true"
}
