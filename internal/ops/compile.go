package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/docgen/internal/compile"
	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// CompileInput contains parameters for the Compile operation.
type CompileInput struct {
	Paths []string
	Log   *slog.Logger
}

// CompileOutput holds the compiled document of all input files.
type CompileOutput struct {
	Document *compile.Document `json:"-"`
	Text     string            `json:"text"`
	Groups   int               `json:"groups"`
}

// Compile extracts the input files and encodes them in the intermediate form.
func Compile(ctx context.Context, cfg *config.Config, input CompileInput) (*CompileOutput, error) {
	cfg = configOrDefault(cfg)
	_, doc, err := compileFiles(ctx, cfg, input.Paths, logger(input.Log))
	if err != nil {
		return nil, err
	}
	return &CompileOutput{Document: doc, Text: compile.Encode(doc), Groups: len(doc.Groups)}, nil
}

// compileFiles extracts and compiles paths as one document, enforcing
// RequireProject.
func compileFiles(ctx context.Context, cfg *config.Config, paths []string, log *slog.Logger) (*entity.Pools, *compile.Document, error) {
	files, err := extractFiles(ctx, cfg, paths, log)
	if err != nil {
		return nil, nil, err
	}
	pools := merge(files)
	if cfg.RequireProject && len(pools.Projects) == 0 {
		return nil, nil, errors.NewConfig(0, "no @docgen: project comment found")
	}
	doc, err := compile.Compile(pools)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("compiled", "groups", len(doc.Groups))
	return pools, doc, nil
}
