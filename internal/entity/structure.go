package entity

import (
	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/field"
	"github.com/hpungsan/docgen/internal/tag"
)

const (
	groupOpen  = "struct_start"
	groupClose = "struct_end"
)

// Structures extracts every structure comment reachable from c, nested
// structures included.
func Structures(c *cursor.Cursor, o Options) ([]Structure, error) {
	return extractAll(c, o, CategoryStructure, func(p *pass, line int) (Structure, error) {
		return p.structure(line, "")
	})
}

// structure parses one structure level. A nested level runs until closeTag
// and recurses on the same cursor for each of its own children.
func (p *pass) structure(line int, closeTag string) (Structure, error) {
	s := Structure{Line: line}
	handlers := map[string]handler{
		"name":        p.once(&s.Name),
		"brief":       p.once(&s.Brief),
		"description": p.block(&s.Description),
		"include":     p.include(&s.Inclusions),
		"reference":   p.reference(&s.References),
		"field": func(name string, t tag.Tag) error {
			arg, desc, err := field.Arg(t, name, p.o.MaxArgument)
			if err != nil {
				return err
			}
			typ, err := p.companion(t, name, "type")
			if err != nil {
				return err
			}
			s.Fields = append(s.Fields, StructField{Name: arg, Type: typ, Description: desc})
			return nil
		},
		groupOpen: func(name string, t tag.Tag) error {
			if err := field.Bare(t, name); err != nil {
				return err
			}
			child, err := p.structure(t.Number, groupClose)
			if err != nil {
				return err
			}
			s.Nested = append(s.Nested, child)
			return nil
		},
		groupClose: func(name string, t tag.Tag) error {
			return errors.NewGrammar(t.Number, "@%s without @%s", groupClose, groupOpen)
		},
	}
	if err := p.loop(CategoryStructure, handlers, closeTag, line); err != nil {
		return Structure{}, err
	}
	// Nested structures may be anonymous.
	if closeTag == "" {
		if err := requireTags(line, CategoryStructure, [2]string{"name", s.Name}); err != nil {
			return Structure{}, err
		}
	}
	return s, nil
}
