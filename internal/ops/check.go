package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/outline"
	"github.com/hpungsan/docgen/internal/render"
)

// CheckInput contains parameters for the Check operation.
type CheckInput struct {
	Paths   []string
	Format  string       // optional, default: cfg.Format
	Section string       // optional, default: cfg.Section
	Extra   embed.Source // optional, consulted for embeds after the inputs
	Log     *slog.Logger
}

// CheckOutput summarizes a successful check.
type CheckOutput struct {
	Records   int               `json:"records"`
	Pages     int               `json:"pages"`
	Files     []string          `json:"files"`
	Documents []DocumentSummary `json:"documents"`
}

// DocumentSummary lists the sections one rendered page carries.
type DocumentSummary struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"`
	Sections []string `json:"sections"`
	Empty    []string `json:"empty_sections,omitempty"`
}

// Check runs the whole pipeline without writing anything.
func Check(ctx context.Context, cfg *config.Config, input CheckInput) (*CheckOutput, error) {
	cfg = configOrDefault(cfg)
	records, pages, err := build(ctx, cfg, input.Paths, input.Format, input.Section, input.Extra, logger(input.Log))
	if err != nil {
		return nil, err
	}
	format := input.Format
	if format == "" {
		format = cfg.Format
	}

	out := &CheckOutput{Records: records, Pages: len(pages), Files: make([]string, 0, len(pages))}
	for _, p := range pages {
		out.Files = append(out.Files, p.File)
		out.Documents = append(out.Documents, summarize(format, p))
	}
	return out, nil
}

// build extracts, compiles and renders paths. It returns the record count
// and every page, or an error and no pages.
func build(ctx context.Context, cfg *config.Config, paths []string, format, section string, extra embed.Source, log *slog.Logger) (int, []render.Page, error) {
	if format == "" {
		format = cfg.Format
	}
	if section == "" {
		section = cfg.Section
	}
	pools, doc, err := compileFiles(ctx, cfg, paths, log)
	if err != nil {
		return 0, nil, err
	}
	pages, err := render.Render(doc, render.Options{Format: format, Section: section, Extra: extra})
	if err != nil {
		return 0, nil, err
	}
	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if err := ValidateOutputName(p.File); err != nil {
			return 0, nil, err
		}
		if prev, ok := seen[p.File]; ok {
			return 0, nil, duplicatePage(p.File, prev, p.Name)
		}
		seen[p.File] = p.Name
	}
	log.Debug("rendered", "pages", len(pages), "format", format)
	return pools.Len(), pages, nil
}

// summarize outlines a rendered page.
func summarize(format string, p render.Page) DocumentSummary {
	sections := outline.Parse(format, p.Content)
	doc := DocumentSummary{Name: p.Name, Kind: p.Kind, Sections: outline.Names(sections)}
	for _, s := range sections {
		if s.Level == 2 && s.Empty {
			doc.Empty = append(doc.Empty, s.Name)
		}
	}
	return doc
}
