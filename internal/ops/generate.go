package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/errors"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Paths     []string
	OutputDir string       // optional, default: cfg.OutputDir
	Format    string       // optional, default: cfg.Format
	Section   string       // optional, default: cfg.Section
	Extra     embed.Source // optional, e.g. the symbol index
	Log       *slog.Logger
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	Dir     string   `json:"dir"`
	Files   []string `json:"files"`
	Records int      `json:"records"`
}

// Generate renders every document from the input files and writes one file
// per document into the output directory. Nothing is written unless every
// document renders.
func Generate(ctx context.Context, cfg *config.Config, input GenerateInput) (*GenerateOutput, error) {
	cfg = configOrDefault(cfg)
	log := logger(input.Log)

	dir := input.OutputDir
	if dir == "" {
		dir = cfg.OutputDir
	}
	if err := ValidateOutputDir(dir); err != nil {
		return nil, err
	}

	records, pages, err := build(ctx, cfg, input.Paths, input.Format, input.Section, input.Extra, log)
	if err != nil {
		return nil, err
	}

	out := &GenerateOutput{Dir: dir, Files: make([]string, 0, len(pages)), Records: records}
	for _, p := range pages {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("generate")
		default:
		}

		path := filepath.Join(dir, p.File)
		if err := writeAtomic(path, p.Content); err != nil {
			return nil, err
		}
		log.Debug("wrote", "file", path, "kind", p.Kind)
		out.Files = append(out.Files, path)
	}
	return out, nil
}

// writeAtomic writes content to a temp file next to path, then renames it
// over path so an existing file survives a failed write.
func writeAtomic(path, content string) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		if errors.Is(err, errors.ErrConfig) {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create %s: %w", path, err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.WriteString(content); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		file = nil
		return errors.NewInternal(err)
	}
	file = nil

	if err := os.Rename(tempPath, path); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to finalize %s: %w", path, err))
	}
	success = true
	return nil
}

func duplicatePage(file, first, second string) error {
	return errors.NewConfig(0, "documents %s and %s would both be written to %s", first, second, file)
}
