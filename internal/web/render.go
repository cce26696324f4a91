package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/ops"
	"github.com/hpungsan/docgen/internal/outline"
	"github.com/hpungsan/docgen/internal/render"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "documents", "symbols"
}

// IndexPageData is the template data for the document list.
type IndexPageData struct {
	PageData
	Pages   []render.Page
	Sources []string
}

// DocumentPageData is the template data for one document.
type DocumentPageData struct {
	PageData
	Page         render.Page
	RenderedHTML template.HTML
	Contents     []TocEntry
}

// TocEntry links to one section heading of a document.
type TocEntry struct {
	Name   string
	Anchor string
	Empty  bool
}

// tableOfContents lists the sections of a Markdown page.
func tableOfContents(md string) []TocEntry {
	var toc []TocEntry
	for _, s := range outline.Markdown(md) {
		if s.Level != 2 {
			continue
		}
		toc = append(toc, TocEntry{Name: s.Name, Anchor: outline.Anchor(s.Name), Empty: s.Empty})
	}
	return toc
}

// SymbolsPageData is the template data for the symbol index.
type SymbolsPageData struct {
	PageData
	Symbols    []db.Symbol
	Pagination ops.Pagination
	Kind       string
	Prefix     string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Code       string
	Message    string
	File       string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"formatTime": formatTime,
		"join":       strings.Join,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"index":    "index.html",
		"document": "document.html",
		"symbols":  "symbols.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrConfig:
		return http.StatusBadRequest
	case errors.ErrGrammar, errors.ErrCapacity, errors.ErrReference:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	dErr, ok := errors.As(err)
	if !ok {
		dErr = errors.NewInternal(err)
	}
	if dErr.Code == errors.ErrInternal {
		log.Printf("internal error: %v", err)
	}

	status := statusFor(dErr.Code)
	message := dErr.Error()
	file, _ := dErr.Details["file"].(string)

	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		errorObj := map[string]any{
			"code":    string(dErr.Code),
			"message": dErr.Message,
			"status":  status,
		}
		if dErr.Line > 0 {
			errorObj["line"] = dErr.Line
		}
		if file != "" {
			errorObj["file"] = file
		}
		renderJSON(w, status, map[string]any{"error": errorObj})
		return
	}

	r.renderPageStatus(w, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Code:       string(dErr.Code),
		Message:    message,
		File:       file,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// renderMarkdown converts a Markdown document to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}
