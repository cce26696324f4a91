package entity

import (
	"strings"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/field"
	"github.com/hpungsan/docgen/internal/tag"
)

// Comment categories named by "@docgen: <category>".
const (
	CategoryFunction      = "function"
	CategoryMacroFunction = "macro_function"
	CategoryConstant      = "constant"
	CategoryStructure     = "structure"
	CategoryProject       = "project"
	CategoryCategory      = "category"
)

var categories = []string{
	CategoryFunction, CategoryMacroFunction, CategoryConstant,
	CategoryStructure, CategoryProject, CategoryCategory,
}

const headerTag = "docgen"

// Options carries the comment markers and capacity limits for one pass.
type Options struct {
	Scanner     tag.Scanner
	Open        string
	MaxTagName  int
	MaxArgument int
	MaxBlock    int
}

// OptionsFrom builds extraction options from configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Scanner:     tag.Scanner{Close: cfg.CommentClose, MaxLine: cfg.MaxLineLength},
		Open:        cfg.CommentOpen,
		MaxTagName:  cfg.MaxTagNameLength,
		MaxArgument: cfg.MaxArgumentLength,
		MaxBlock:    cfg.MaxBlockLength,
	}
}

// DefaultOptions returns options for the default configuration.
func DefaultOptions() Options {
	return OptionsFrom(config.DefaultConfig())
}

// seek advances c to the body of the next docgen comment of the given
// category and returns the line of its @docgen tag.
func (o Options) seek(c *cursor.Cursor, category string) (int, bool, error) {
	for !c.AtEOF() {
		start := *c
		raw := c.ReadUntil(cursor.IsNewline)
		c.Next()
		idx := strings.Index(raw, o.Open)
		if idx < 0 || strings.Contains(raw[idx+len(o.Open):], o.Scanner.Close) {
			continue
		}

		// The rest of the opener line is the comment's first line.
		*c = start
		for range raw[:idx+len(o.Open)] {
			c.Next()
		}

		got, line, isDocgen, err := o.header(c)
		if err != nil {
			return 0, false, err
		}
		if isDocgen && got == category {
			return line, true, nil
		}
		if isDocgen {
			o.skipComment(c)
		}
	}
	return 0, false, nil
}

// header reads up to the first tag of a comment and reports whether it is a
// "@docgen: <category>" line. Non-docgen comments are consumed to their close.
func (o Options) header(c *cursor.Cursor) (string, int, bool, error) {
	for {
		t := o.Scanner.Next(c)
		switch t.Status {
		case tag.Empty:
			continue
		case tag.Success:
		case tag.LineTooLong:
			// The line may hold the header, and may hold the close.
			return "", 0, false, t.Err()
		default:
			// Done, EOF or a one-line tag comment: not ours.
			return "", 0, false, nil
		}

		name, err := tag.Name(t, o.MaxTagName)
		if err != nil || name != headerTag {
			o.skipComment(c)
			return "", 0, false, nil
		}
		category, err := field.Line(t, headerTag)
		if err != nil {
			return "", 0, false, err
		}
		category = strings.TrimSpace(category)
		for _, known := range categories {
			if category == known {
				return category, t.Number, true, nil
			}
		}
		return "", 0, false, errors.NewGrammar(t.Number, "unknown docgen category %q", category)
	}
}

// skipComment consumes raw lines through the next comment close marker.
func (o Options) skipComment(c *cursor.Cursor) {
	for !c.AtEOF() {
		raw := c.ReadUntil(cursor.IsNewline)
		c.Next()
		if strings.Contains(raw, o.Scanner.Close) {
			return
		}
	}
}

// extractAll runs one over every comment of category found from a private
// copy of c.
func extractAll[T any](c *cursor.Cursor, o Options, category string, one func(p *pass, line int) (T, error)) ([]T, error) {
	c = c.Clone()
	var out []T
	for {
		line, found, err := o.seek(c, category)
		if err != nil {
			return nil, err
		}
		if !found {
			return out, nil
		}
		rec, err := one(&pass{o: o, c: c}, line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// handler decodes one tag into the record being built.
type handler func(name string, t tag.Tag) error

// pass is the state of one extraction over one comment.
type pass struct {
	o Options
	c *cursor.Cursor
}

func (p *pass) next() tag.Tag {
	return p.o.Scanner.Next(p.c)
}

// loop dispatches tags to handlers until the comment closes or, when closeTag
// is set, until that bare tag appears.
func (p *pass) loop(category string, handlers map[string]handler, closeTag string, openLine int) error {
	for {
		t := p.next()
		switch t.Status {
		case tag.Success:
		case tag.Empty:
			continue
		case tag.Done:
			if closeTag != "" {
				return errors.NewGrammar(openLine, "unclosed group: missing @%s", closeTag)
			}
			return nil
		default:
			return t.Err()
		}

		name, err := tag.Name(t, p.o.MaxTagName)
		if err != nil {
			return err
		}
		if closeTag != "" && name == closeTag {
			return field.Bare(t, name)
		}
		h, ok := handlers[name]
		if !ok {
			return errors.NewGrammar(t.Number, "unknown tag @%s in %s comment", name, category)
		}
		if err := h(name, t); err != nil {
			return err
		}
	}
}

// companion reads the tag that must immediately follow first and returns its
// line-field value.
func (p *pass) companion(first tag.Tag, firstName, want string) (string, error) {
	t := p.next()
	if t.Status != tag.Success {
		return "", errors.NewMissingCompanion(first.Number, firstName, want)
	}
	name, err := tag.Name(t, p.o.MaxTagName)
	if err != nil {
		return "", err
	}
	if name != want {
		return "", errors.NewMissingCompanion(first.Number, firstName, want)
	}
	return field.Line(t, want)
}

// Handler builders shared by the extractors.

func (p *pass) once(dst *string) handler {
	return func(name string, t tag.Tag) error {
		if *dst != "" {
			return errors.NewGrammar(t.Number, "duplicate @%s", name)
		}
		v, err := field.Line(t, name)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (p *pass) block(dst *string) handler {
	return func(name string, t tag.Tag) error {
		if *dst != "" {
			return errors.NewGrammar(t.Number, "duplicate @%s", name)
		}
		v, err := field.Block(p.o.Scanner, p.c, t, name, p.o.MaxBlock)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (p *pass) list(dst *[]string) handler {
	return func(name string, t tag.Tag) error {
		v, err := field.Line(t, name)
		if err != nil {
			return err
		}
		*dst = append(*dst, v)
		return nil
	}
}

func (p *pass) include(dst *[]Inclusion) handler {
	return func(name string, t tag.Tag) error {
		path, system, err := field.Include(t, name)
		if err != nil {
			return err
		}
		*dst = append(*dst, Inclusion{Path: path, System: system})
		return nil
	}
}

func (p *pass) reference(dst *[]Reference) handler {
	return func(name string, t tag.Tag) error {
		manual, section, err := field.Reference(t, name)
		if err != nil {
			return err
		}
		*dst = append(*dst, Reference{Manual: manual, Section: section})
		return nil
	}
}

// params builds the @param handler; typed params need an @type companion.
func (p *pass) params(dst *[]Parameter, typed bool) handler {
	return func(name string, t tag.Tag) error {
		arg, desc, err := field.Arg(t, name, p.o.MaxArgument)
		if err != nil {
			return err
		}
		param := Parameter{Name: arg, Description: desc}
		if typed {
			if param.Type, err = p.companion(t, name, "type"); err != nil {
				return err
			}
		}
		*dst = append(*dst, param)
		return nil
	}
}

// ret builds the @return handler; typed returns need an @type companion.
func (p *pass) ret(dst **Return, typed bool) handler {
	return func(name string, t tag.Tag) error {
		if *dst != nil {
			return errors.NewGrammar(t.Number, "duplicate @%s", name)
		}
		v, err := field.Line(t, name)
		if err != nil {
			return err
		}
		r := &Return{Value: v}
		if typed {
			if r.Type, err = p.companion(t, name, "type"); err != nil {
				return err
			}
		}
		*dst = r
		return nil
	}
}

// requireTags reports the first missing required tag at the @docgen line.
func requireTags(line int, category string, fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return errors.NewGrammar(line, "%s comment is missing @%s", category, f[0])
		}
	}
	return nil
}
