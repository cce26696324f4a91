package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/ops"
	"github.com/hpungsan/docgen/internal/render"
)

// Handlers contains HTTP route handlers for the preview.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	paths    []string
	renderer *Renderer
}

// pages renders every document of the configured sources as Markdown.
func (h *Handlers) pages(r *http.Request) ([]render.Page, error) {
	var extra embed.Source
	if h.db != nil {
		extra = db.Index{DB: h.db}
	}
	out, err := ops.Render(r.Context(), h.cfg, ops.RenderInput{
		Paths:  h.paths,
		Format: config.FormatMarkdown,
		Extra:  extra,
	})
	if err != nil {
		return nil, err
	}
	return out.Pages, nil
}

// HandleIndex handles GET / — list every document.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "index", IndexPageData{
		PageData: PageData{
			Title:   "Documents",
			Version: h.renderer.version,
			Nav:     "documents",
		},
		Pages:   pages,
		Sources: h.paths,
	})
}

// HandleDocument handles GET /docs/{name} — one document as HTML.
func (h *Handlers) HandleDocument(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	pages, err := h.pages(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	for _, p := range pages {
		if p.Name != name {
			continue
		}
		h.renderer.renderPage(w, r, "document", DocumentPageData{
			PageData: PageData{
				Title:   p.Name,
				Version: h.renderer.version,
				Nav:     "documents",
			},
			Page:         p,
			RenderedHTML: renderMarkdown(p.Content),
			Contents:     tableOfContents(p.Content),
		})
		return
	}
	h.renderer.renderError(w, r, errors.NewNotFound(name))
}

// HandleSymbols handles GET /symbols — page through the symbol index.
func (h *Handlers) HandleSymbols(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		h.renderer.renderError(w, r, errors.NewConfig(0, "the symbol index is not available"))
		return
	}

	q := r.URL.Query()
	input := ops.LookupInput{
		Kind:   q.Get("kind"),
		Prefix: q.Get("prefix"),
		File:   q.Get("file"),
		Limit:  parseIntParam(r, "limit", ops.DefaultLookupLimit),
		Offset: parseIntParam(r, "offset", 0),
	}
	result, err := ops.Lookup(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "symbols", SymbolsPageData{
		PageData: PageData{
			Title:   "Symbols",
			Version: h.renderer.version,
			Nav:     "symbols",
		},
		Symbols:    result.Symbols,
		Pagination: *result.Pagination,
		Kind:       input.Kind,
		Prefix:     input.Prefix,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
