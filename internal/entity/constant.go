package entity

import (
	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/field"
	"github.com/hpungsan/docgen/internal/tag"
)

// Constants extracts every constant comment reachable from c.
func Constants(c *cursor.Cursor, o Options) ([]Constant, error) {
	return extractAll(c, o, CategoryConstant, extractConstant)
}

func extractConstant(p *pass, line int) (Constant, error) {
	k := Constant{Line: line}
	guardSeen := false
	handlers := map[string]handler{
		"name":    p.once(&k.Name),
		"brief":   p.once(&k.Brief),
		"value":   p.once(&k.Value),
		"include": p.include(&k.Inclusions),
		"guard": func(name string, t tag.Tag) error {
			if guardSeen {
				return errors.NewGrammar(t.Number, "duplicate @%s", name)
			}
			guardSeen = true
			v, err := field.Flag(t, name)
			k.Guard = v
			return err
		},
	}
	if err := p.loop(CategoryConstant, handlers, "", line); err != nil {
		return Constant{}, err
	}
	if err := requireTags(line, CategoryConstant, [2]string{"name", k.Name}, [2]string{"value", k.Value}); err != nil {
		return Constant{}, err
	}
	return k, nil
}
