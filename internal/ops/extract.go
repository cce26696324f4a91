package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/docgen/internal/config"
)

// ExtractInput contains parameters for the Extract operation.
type ExtractInput struct {
	Paths []string
	Log   *slog.Logger
}

// ExtractOutput contains the records found in each file.
type ExtractOutput struct {
	Files []FileRecords `json:"files"`
	Count int           `json:"count"`
}

// Extract reads every source file and returns its typed records.
func Extract(ctx context.Context, cfg *config.Config, input ExtractInput) (*ExtractOutput, error) {
	cfg = configOrDefault(cfg)
	files, err := extractFiles(ctx, cfg, input.Paths, logger(input.Log))
	if err != nil {
		return nil, err
	}
	count := 0
	for _, f := range files {
		count += f.Pools.Len()
	}
	return &ExtractOutput{Files: files, Count: count}, nil
}
