package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// IndexInput contains parameters for the Index operation.
type IndexInput struct {
	Paths []string
	Log   *slog.Logger
}

// IndexOutput contains the result of the Index operation.
type IndexOutput struct {
	RunID     string `json:"run_id"`
	Files     int    `json:"files"`
	Symbols   int    `json:"symbols"`
	Removed   int    `json:"removed"`
	IndexedAt int64  `json:"indexed_at"`
}

// Index stores the embeddable records of every input file in the symbol
// table. Symbols previously indexed from the same files are replaced.
func Index(ctx context.Context, database *sql.DB, cfg *config.Config, input IndexInput) (*IndexOutput, error) {
	cfg = configOrDefault(cfg)
	log := logger(input.Log)

	files, err := extractFiles(ctx, cfg, input.Paths, log)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	runID := ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String()
	out := &IndexOutput{RunID: runID, Files: len(files), IndexedAt: now.Unix()}

	// A name defined in an earlier file of the run wins over later ones.
	seen := make(map[string]bool)
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("index")
		default:
		}

		removed, err := db.DeleteFile(database, f.Path)
		if err != nil {
			return nil, err
		}
		out.Removed += removed

		frags := embed.All(f.Pools)
		lines := recordLines(f.Pools)
		for i, frag := range frags {
			key := frag.Kind.String() + "\x00" + frag.Name
			if seen[key] {
				continue
			}
			seen[key] = true

			s := &db.Symbol{
				Kind:      frag.Kind,
				Name:      frag.Name,
				File:      f.Path,
				Line:      lines[i],
				Brief:     frag.Brief,
				Signature: frag.Signature,
				RunID:     runID,
				IndexedAt: out.IndexedAt,
			}
			if err := db.Upsert(database, s); err != nil {
				return nil, errors.With(err, "file", f.Path)
			}
			out.Symbols++
		}
		log.Debug("indexed", "file", f.Path, "symbols", len(frags), "removed", removed)
	}
	return out, nil
}

// recordLines returns the comment line of every embeddable record, in the
// order of embed.All.
func recordLines(p *entity.Pools) []int {
	var lines []int
	for _, f := range p.Functions {
		lines = append(lines, f.Line)
	}
	for _, m := range p.MacroFunctions {
		lines = append(lines, m.Line)
	}
	for _, k := range p.Constants {
		lines = append(lines, k.Line)
	}
	for _, s := range p.Structures {
		lines = append(lines, s.Line)
	}
	return lines
}
