// Package render lays compiled groups out as manual pages or Markdown files.
package render

import (
	"strings"

	"github.com/hpungsan/docgen/internal/compile"
	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/markup"
)

// Page is one rendered output file.
type Page struct {
	Name    string `json:"name"`
	File    string `json:"file"`
	Kind    string `json:"kind,omitempty"`
	Content string `json:"content"`
}

// Options controls rendering.
type Options struct {
	Format  string       // config.FormatManpage or config.FormatMarkdown
	Section string       // manual section, e.g. "3"
	Extra   embed.Source // consulted after the document for embed requests
}

// layout is the per-format page structure around rendered marker text.
type layout interface {
	markup() markup.Backend
	file(name, section string) string
	title(g *compile.Group, section string) []string
	heading(name string) []string
	name(rendered string) []string
	text(rendered string) []string
	code(body string) []string
	references(refs []referenceLine) []string
}

type referenceLine struct {
	manual, section string
}

func layoutFor(format string) (layout, error) {
	switch format {
	case config.FormatManpage, "":
		return manpage{}, nil
	case config.FormatMarkdown:
		return markdownPage{}, nil
	}
	if config.IsLegacyFormat(format) {
		return nil, errors.NewConfig(0, "output format %q is not supported", format)
	}
	return nil, errors.NewConfig(0, "unknown output format %q", format)
}

// Render renders every group of doc. It returns no pages unless every group
// renders and validates.
func Render(doc *compile.Document, opts Options) ([]Page, error) {
	l, err := layoutFor(opts.Format)
	if err != nil {
		return nil, err
	}
	section := opts.Section
	if section == "" {
		section = config.DefaultConfig().Section
	}
	src := embed.Sources{doc, opts.Extra}

	pages := make([]Page, 0, len(doc.Groups))
	for i := range doc.Groups {
		g := &doc.Groups[i]
		content, err := group(l, g, section, src)
		if err != nil {
			return nil, inGroup(err, g.Name)
		}
		pages = append(pages, Page{Name: g.Name, File: l.file(g.Name, section), Kind: g.Kind, Content: content})
	}
	return pages, nil
}

// Group renders a single group.
func Group(g *compile.Group, opts Options) (Page, error) {
	pages, err := Render(&compile.Document{Groups: []compile.Group{*g}}, opts)
	if err != nil {
		return Page{}, err
	}
	return pages[0], nil
}

func inGroup(err error, name string) error {
	return errors.With(err, "group", name)
}

func group(l layout, g *compile.Group, section string, src embed.Source) (string, error) {
	var embeds string
	if len(g.Requests) > 0 {
		frags, err := embed.Resolve(g.Requests, src)
		if err != nil {
			return "", err
		}
		embeds = embed.Text(embed.Arrange(frags))
	}

	out := l.title(g, section)
	seen := map[string]bool{}
	emit := func(name, body string) error {
		seen[name] = true
		var bodies []string
		add := func(b string) {
			if b != "" {
				bodies = append(bodies, b)
			}
		}
		for _, p := range g.Prepends {
			if p.Name == name {
				add(p.Body)
			}
		}
		add(body)
		for _, a := range g.Appends {
			if a.Name == name {
				add(a.Body)
			}
		}
		if name == compile.SectionSynopsis {
			add(embeds)
		}
		if len(bodies) == 0 {
			return nil
		}

		out = append(out, l.heading(name)...)
		if compile.Verbatim(name) {
			out = append(out, l.code(strings.Join(bodies, "\n\n"))...)
			return nil
		}
		for _, b := range bodies {
			rendered, err := markup.Render(b, l.markup())
			if err != nil {
				return errors.With(err, "section", name)
			}
			if name == compile.SectionName {
				out = append(out, l.name(rendered)...)
			} else {
				out = append(out, l.text(rendered)...)
			}
		}
		return nil
	}

	for _, s := range g.Sections {
		if err := emit(s.Name, s.Body); err != nil {
			return "", err
		}
	}
	for _, extra := range [][]compile.Section{g.Prepends, g.Appends} {
		for _, s := range extra {
			if !seen[s.Name] {
				if err := emit(s.Name, ""); err != nil {
					return "", err
				}
			}
		}
	}
	if embeds != "" && !seen[compile.SectionSynopsis] {
		if err := emit(compile.SectionSynopsis, ""); err != nil {
			return "", err
		}
	}

	if len(g.References) > 0 {
		refs := make([]referenceLine, 0, len(g.References))
		for _, r := range g.References {
			refs = append(refs, referenceLine{r.Manual, r.Section})
		}
		out = append(out, l.heading("SEE ALSO")...)
		out = append(out, l.references(refs)...)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n", nil
}
