package db

import (
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// Symbol is one indexed embeddable record.
type Symbol struct {
	Kind      entity.Kind `json:"kind"`
	Name      string      `json:"name"`
	File      string      `json:"file"`
	Line      int         `json:"line"`
	Brief     string      `json:"brief,omitempty"`
	Signature []string    `json:"signature"`
	RunID     string      `json:"run_id"`
	IndexedAt int64       `json:"indexed_at"`
}

// Fragment converts s into an embed fragment.
func (s *Symbol) Fragment() embed.Fragment {
	return embed.Fragment{Kind: s.Kind, Name: s.Name, Brief: s.Brief, Signature: s.Signature}
}

// Upsert stores s, replacing any symbol with the same kind and name.
func Upsert(db *sql.DB, s *Symbol) error {
	query := `
		INSERT INTO symbols (kind, name, file, line, brief, signature, run_id, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, name) DO UPDATE SET
			file = excluded.file,
			line = excluded.line,
			brief = excluded.brief,
			signature = excluded.signature,
			run_id = excluded.run_id,
			indexed_at = excluded.indexed_at
	`
	_, err := db.Exec(query,
		int(s.Kind), s.Name, s.File, s.Line, s.Brief,
		strings.Join(s.Signature, "\n"), s.RunID, s.IndexedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// DeleteFile removes every symbol indexed from file and returns the count.
func DeleteFile(db *sql.DB, file string) (int, error) {
	result, err := db.Exec("DELETE FROM symbols WHERE file = ?", file)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// GetByName retrieves one symbol by kind and exact name.
func GetByName(db *sql.DB, kind entity.Kind, name string) (*Symbol, error) {
	row := db.QueryRow(`
		SELECT kind, name, file, line, brief, signature, run_id, indexed_at
		FROM symbols
		WHERE kind = ? AND name = ?
	`, int(kind), name)

	s, err := scanSymbol(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFound(kind.String() + " " + name)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return s, nil
}

// ListFilter narrows List.
type ListFilter struct {
	Kind       *entity.Kind
	NamePrefix string
	File       string
	Limit      int
	Offset     int
}

// List returns symbols ordered by kind then name, and the total matching
// count before pagination.
func List(db *sql.DB, f ListFilter) ([]Symbol, int, error) {
	var where []string
	var args []any
	if f.Kind != nil {
		where = append(where, "kind = ?")
		args = append(args, int(*f.Kind))
	}
	if f.NamePrefix != "" {
		where = append(where, "name LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(f.NamePrefix)+"%")
	}
	if f.File != "" {
		where = append(where, "file = ?")
		args = append(args, f.File)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM symbols"+clause, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT kind, name, file, line, brief, signature, run_id, indexed_at
		FROM symbols`+clause+`
		ORDER BY kind, name
		LIMIT ? OFFSET ?`, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		s, err := scanSymbol(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return out, total, nil
}

// escapeLike escapes LIKE wildcards so a prefix matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSymbol(row scanner) (*Symbol, error) {
	var s Symbol
	var kind int
	var sig string
	if err := row.Scan(&kind, &s.Name, &s.File, &s.Line, &s.Brief, &sig, &s.RunID, &s.IndexedAt); err != nil {
		return nil, err
	}
	s.Kind = entity.Kind(kind)
	s.Signature = strings.Split(sig, "\n")
	return &s, nil
}

// Index resolves embeds against the symbol table.
type Index struct {
	DB *sql.DB
}

// Lookup implements embed.Source.
func (ix Index) Lookup(kind entity.Kind, name string) (embed.Fragment, bool, error) {
	s, err := GetByName(ix.DB, kind, name)
	if errors.Is(err, errors.ErrNotFound) {
		return embed.Fragment{}, false, nil
	}
	if err != nil {
		return embed.Fragment{}, false, err
	}
	return s.Fragment(), true, nil
}
