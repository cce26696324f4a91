package ops

import (
	"context"
	"io"
	"log/slog"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// Pagination limits
const (
	DefaultLookupLimit = 20
	MaxLookupLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// FileRecords is the extraction result of one source file.
type FileRecords struct {
	Path  string        `json:"path"`
	Pools *entity.Pools `json:"records"`
}

// logger returns l, or a logger that discards everything.
func logger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// readSource reads a whole source file.
func readSource(path string) (string, error) {
	f, err := openFileNoFollowRead(path)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrConfig) {
			return "", err
		}
		return "", errors.NewInternal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return string(data), nil
}

// extractFiles reads and extracts every path in order. Errors carry the
// offending file in their details.
func extractFiles(ctx context.Context, cfg *config.Config, paths []string, log *slog.Logger) ([]FileRecords, error) {
	if len(paths) == 0 {
		return nil, errors.NewConfig(0, "no source files given")
	}
	opts := entity.OptionsFrom(cfg)

	out := make([]FileRecords, 0, len(paths))
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("extraction")
		default:
		}

		text, err := readSource(path)
		if err != nil {
			return nil, errors.With(err, "file", path)
		}
		pools, err := entity.Extract(text, opts)
		if err != nil {
			return nil, errors.With(err, "file", path)
		}
		log.Debug("extracted", "file", path, "records", pools.Len())
		out = append(out, FileRecords{Path: path, Pools: pools})
	}
	return out, nil
}

// merge concatenates the pools of every file in order.
func merge(files []FileRecords) *entity.Pools {
	all := &entity.Pools{}
	for _, f := range files {
		all.Append(f.Pools)
	}
	return all
}

// configOrDefault returns cfg or the default configuration.
func configOrDefault(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}
