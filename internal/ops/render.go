package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/render"
)

// RenderInput contains parameters for the Render operation.
type RenderInput struct {
	Paths   []string
	Format  string       // optional, default: cfg.Format
	Section string       // optional, default: cfg.Section
	Extra   embed.Source // optional
	Log     *slog.Logger
}

// RenderOutput holds rendered pages in document order.
type RenderOutput struct {
	Pages   []render.Page `json:"pages"`
	Records int           `json:"records"`
}

// Render renders every document in memory without writing files.
func Render(ctx context.Context, cfg *config.Config, input RenderInput) (*RenderOutput, error) {
	cfg = configOrDefault(cfg)
	records, pages, err := build(ctx, cfg, input.Paths, input.Format, input.Section, input.Extra, logger(input.Log))
	if err != nil {
		return nil, err
	}
	return &RenderOutput{Pages: pages, Records: records}, nil
}
