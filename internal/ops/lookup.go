package ops

import (
	"database/sql"

	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// LookupInput contains parameters for the Lookup operation.
// Name selects one symbol; otherwise the index is listed with the filters.
type LookupInput struct {
	Name   string
	Kind   string // optional: function, macro_function, constant, structure
	Prefix string
	File   string
	Limit  int
	Offset int
}

// LookupOutput contains either one symbol or a page of symbols.
type LookupOutput struct {
	Symbol     *db.Symbol  `json:"symbol,omitempty"`
	Symbols    []db.Symbol `json:"symbols,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Lookup queries the symbol index.
func Lookup(database *sql.DB, input LookupInput) (*LookupOutput, error) {
	var kind *entity.Kind
	if input.Kind != "" {
		k, ok := entity.ParseKind(input.Kind)
		if !ok {
			return nil, errors.NewConfig(0, "unknown kind %q", input.Kind)
		}
		kind = &k
	}

	if input.Name != "" {
		s, err := lookupName(database, kind, input.Name)
		if err != nil {
			return nil, err
		}
		return &LookupOutput{Symbol: s}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLookupLimit
	}
	if limit > MaxLookupLimit {
		limit = MaxLookupLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	symbols, total, err := db.List(database, db.ListFilter{
		Kind:       kind,
		NamePrefix: input.Prefix,
		File:       input.File,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = []db.Symbol{}
	}
	return &LookupOutput{
		Symbols: symbols,
		Pagination: &Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(symbols) < total,
			Total:   total,
		},
	}, nil
}

// lookupName tries kind, or every kind in order when kind is nil.
func lookupName(database *sql.DB, kind *entity.Kind, name string) (*db.Symbol, error) {
	if kind != nil {
		return db.GetByName(database, *kind, name)
	}
	for k := entity.KindFunction; k <= entity.KindStructure; k++ {
		s, err := db.GetByName(database, k, name)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, errors.NewNotFound(name)
}
