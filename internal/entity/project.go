package entity

import (
	"strings"

	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/field"
	"github.com/hpungsan/docgen/internal/tag"
)

// Projects extracts every project comment reachable from c.
func Projects(c *cursor.Cursor, o Options) ([]Project, error) {
	return extractAll(c, o, CategoryProject, func(p *pass, line int) (Project, error) {
		return p.project(line, CategoryProject)
	})
}

// Categories extracts every category comment reachable from c. Categories
// share the project schema but carry no settings.
func Categories(c *cursor.Cursor, o Options) ([]Project, error) {
	return extractAll(c, o, CategoryCategory, func(p *pass, line int) (Project, error) {
		return p.project(line, CategoryCategory)
	})
}

var settingKeywords = map[string]func(*Settings){
	"function_briefs":  func(s *Settings) { s.FunctionBriefs = true },
	"macro_briefs":     func(s *Settings) { s.MacroBriefs = true },
	"constant_briefs":  func(s *Settings) { s.ConstantBriefs = true },
	"structure_briefs": func(s *Settings) { s.StructureBriefs = true },
}

func (p *pass) project(line int, category string) (Project, error) {
	pr := Project{Line: line}
	handlers := map[string]handler{
		"name":        p.once(&pr.Name),
		"brief":       p.once(&pr.Brief),
		"description": p.block(&pr.Description),
		"arguments":   p.block(&pr.Arguments),
		"notes":       p.block(&pr.Notes),
		"example":     p.block(&pr.Example),
		"include":     p.include(&pr.Inclusions),
		"reference":   p.reference(&pr.References),
		"embed": func(name string, t tag.Tag) error {
			kind, target, err := field.Arg(t, name, p.o.MaxArgument)
			if err != nil {
				return err
			}
			k, ok := ParseKind(kind)
			if !ok {
				return errors.NewGrammar(t.Number, "@%s: unknown kind %q", name, kind)
			}
			pr.Embeds = append(pr.Embeds, EmbedRequest{Kind: k, Name: strings.TrimSpace(target), Line: t.Number})
			return nil
		},
		"setting": func(name string, t tag.Tag) error {
			if category != CategoryProject {
				return errors.NewGrammar(t.Number, "@%s is only allowed in project comments", name)
			}
			v, err := field.Line(t, name)
			if err != nil {
				return err
			}
			set, ok := settingKeywords[strings.TrimSpace(v)]
			if !ok {
				return errors.NewConfig(t.Number, "unknown setting %q", strings.TrimSpace(v))
			}
			set(&pr.Settings)
			return nil
		},
	}
	if err := p.loop(category, handlers, "", line); err != nil {
		return Project{}, err
	}
	if err := requireTags(line, category, [2]string{"name", pr.Name}, [2]string{"brief", pr.Brief}); err != nil {
		return Project{}, err
	}
	// Settings may follow the embeds that depend on them.
	for i := range pr.Embeds {
		pr.Embeds[i].AllowBrief = pr.Settings.AllowBrief(pr.Embeds[i].Kind)
	}
	return pr, nil
}
