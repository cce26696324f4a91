// Package compile turns extracted records into the backend-neutral document
// model and its line-oriented wire form.
package compile

import (
	"fmt"
	"strings"

	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// Well-known section names.
const (
	SectionName        = "NAME"
	SectionSynopsis    = "SYNOPSIS"
	SectionDescription = "DESCRIPTION"
	SectionOptions     = "OPTIONS"
	SectionReturn      = "RETURN VALUE"
	SectionErrors      = "ERRORS"
	SectionNotes       = "NOTES"
	SectionExamples    = "EXAMPLES"
)

// Verbatim reports whether a section's body is code rather than marker text.
func Verbatim(section string) bool {
	return section == SectionSynopsis || section == SectionExamples
}

// Section is a named body of text.
type Section struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// Group is everything needed to render one output document.
type Group struct {
	Name       string                `json:"name"`
	Kind       string                `json:"kind,omitempty"`
	Sections   []Section             `json:"sections,omitempty"`
	Prepends   []Section             `json:"prepends,omitempty"`
	Appends    []Section             `json:"appends,omitempty"`
	Embeds     []embed.Fragment      `json:"embeds,omitempty"`
	Requests   []entity.EmbedRequest `json:"requests,omitempty"`
	References []entity.Reference    `json:"references,omitempty"`
}

// Section returns the named section, if present.
func (g *Group) Section(name string) (Section, bool) {
	for _, s := range g.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Document is an ordered list of groups.
type Document struct {
	Groups []Group `json:"groups"`
}

// Lookup implements embed.Source over the embeds carried by the document.
func (d *Document) Lookup(kind entity.Kind, name string) (embed.Fragment, bool, error) {
	for i := range d.Groups {
		for _, f := range d.Groups[i].Embeds {
			if f.Kind == kind && f.Name == name {
				return f, true, nil
			}
		}
	}
	return embed.Fragment{}, false, nil
}

// Compile builds one group per record: projects, categories, functions,
// macro functions, constants, then structures.
func Compile(p *entity.Pools) (*Document, error) {
	doc := &Document{}
	add := func(g Group, err error) error {
		if err != nil {
			return err
		}
		doc.Groups = append(doc.Groups, g)
		return nil
	}

	for i := range p.Projects {
		if err := add(projectGroup(&p.Projects[i], entity.CategoryProject)); err != nil {
			return nil, err
		}
	}
	for i := range p.Categories {
		if err := add(projectGroup(&p.Categories[i], entity.CategoryCategory)); err != nil {
			return nil, err
		}
	}
	for i := range p.Functions {
		if err := add(functionGroup(&p.Functions[i])); err != nil {
			return nil, err
		}
	}
	for i := range p.MacroFunctions {
		if err := add(macroGroup(&p.MacroFunctions[i])); err != nil {
			return nil, err
		}
	}
	for i := range p.Constants {
		if err := add(constantGroup(&p.Constants[i])); err != nil {
			return nil, err
		}
	}
	for i := range p.Structures {
		if err := add(structureGroup(&p.Structures[i])); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// builder accumulates one group.
type builder struct {
	g    Group
	line int
	err  error
}

func newBuilder(name, kind string, line int) *builder {
	b := &builder{g: Group{Name: name, Kind: kind}, line: line}
	if name == "" || strings.ContainsAny(name, " \t") {
		b.err = errors.NewGrammar(line, "%s name %q must be a single word", kind, name)
	}
	return b
}

func (b *builder) section(name, body string) {
	b.g.Sections = append(b.g.Sections, Section{Name: name, Body: body})
}

// markup converts the table regions of a marker text block.
func (b *builder) markup(body string) string {
	if body == "" || b.err != nil {
		return body
	}
	converted, err := convertTables(body, b.line)
	if err != nil {
		b.err = err
	}
	return converted
}

// text adds a marker text section unless body is empty.
func (b *builder) text(name, body string) {
	if body != "" {
		b.section(name, b.markup(body))
	}
}

// code adds a verbatim section unless body is empty.
func (b *builder) code(name, body string) {
	if body != "" {
		b.section(name, body)
	}
}

func (b *builder) nameLine(brief string) {
	if brief == "" {
		b.section(SectionName, b.g.Name)
		return
	}
	b.section(SectionName, b.g.Name+" - "+brief)
}

func (b *builder) includes(incs []entity.Inclusion) {
	if len(incs) == 0 {
		return
	}
	lines := make([]string, 0, len(incs))
	for _, inc := range incs {
		if inc.System {
			lines = append(lines, "#include <"+inc.Path+">")
		} else {
			lines = append(lines, `#include "`+inc.Path+`"`)
		}
	}
	b.g.Prepends = append(b.g.Prepends, Section{Name: SectionSynopsis, Body: strings.Join(lines, "\n")})
}

// list returns items as a marker list, optionally introduced by a line.
func list(intro string, items []string) string {
	lines := []string{}
	if intro != "" {
		lines = append(lines, intro)
	}
	lines = append(lines, `\L`)
	lines = append(lines, items...)
	lines = append(lines, `\L`)
	return strings.Join(lines, "\n")
}

// appendList appends a marker list to section.
func (b *builder) appendList(section, intro string, items []string) {
	if len(items) > 0 {
		b.g.Appends = append(b.g.Appends, Section{Name: section, Body: list(intro, items)})
	}
}

func (b *builder) errorList(errs []string) {
	if len(errs) > 0 {
		b.section(SectionErrors, list("", errs))
	}
}

func (b *builder) done() (Group, error) {
	return b.g, b.err
}

func paramItems(params []entity.Parameter) []string {
	items := make([]string, 0, len(params))
	for _, p := range params {
		if p.Type != "" {
			items = append(items, fmt.Sprintf(`\I%s\I (%s): %s`, p.Name, p.Type, p.Description))
		} else {
			items = append(items, fmt.Sprintf(`\I%s\I: %s`, p.Name, p.Description))
		}
	}
	return items
}

func functionGroup(f *entity.Function) (Group, error) {
	b := newBuilder(f.Name, entity.CategoryFunction, f.Line)
	b.nameLine(f.Brief)
	b.includes(f.Inclusions)
	sig := embed.FunctionSignature(f)
	b.section(SectionSynopsis, strings.Join(sig, "\n"))
	if f.Description != "" || len(f.Parameters) > 0 {
		b.section(SectionDescription, b.markup(f.Description))
	}
	b.appendList(SectionDescription, "Parameters:", paramItems(f.Parameters))
	if f.Return != nil {
		b.text(SectionReturn, f.Return.Value)
	}
	b.errorList(f.Errors)
	b.text(SectionNotes, f.Notes)
	b.code(SectionExamples, f.Example)
	b.g.Embeds = []embed.Fragment{{Kind: entity.KindFunction, Name: f.Name, Brief: f.Brief, Signature: sig}}
	b.g.References = f.References
	return b.done()
}

func macroGroup(m *entity.MacroFunction) (Group, error) {
	b := newBuilder(m.Name, entity.CategoryMacroFunction, m.Line)
	b.nameLine(m.Brief)
	b.includes(m.Inclusions)
	sig := embed.MacroSignature(m)
	b.section(SectionSynopsis, strings.Join(sig, "\n"))
	if m.Description != "" || len(m.Parameters) > 0 {
		b.section(SectionDescription, b.markup(m.Description))
	}
	b.appendList(SectionDescription, "Parameters:", paramItems(m.Parameters))
	if m.Return != nil {
		b.text(SectionReturn, m.Return.Value)
	}
	b.errorList(m.Errors)
	b.text(SectionNotes, m.Notes)
	b.code(SectionExamples, m.Example)
	b.g.Embeds = []embed.Fragment{{Kind: entity.KindMacroFunction, Name: m.Name, Brief: m.Brief, Signature: sig}}
	b.g.References = m.References
	return b.done()
}

func constantGroup(k *entity.Constant) (Group, error) {
	b := newBuilder(k.Name, entity.CategoryConstant, k.Line)
	b.nameLine(k.Brief)
	b.includes(k.Inclusions)
	sig := embed.ConstantSignature(k)
	synopsis := sig
	if k.Guard {
		synopsis = append([]string{"#ifndef " + k.Name}, sig...)
		synopsis = append(synopsis, "#endif")
	}
	b.section(SectionSynopsis, strings.Join(synopsis, "\n"))
	b.g.Embeds = []embed.Fragment{{Kind: entity.KindConstant, Name: k.Name, Brief: k.Brief, Signature: sig}}
	return b.done()
}

func fieldItems(s *entity.Structure, prefix string, items []string) []string {
	for _, f := range s.Fields {
		items = append(items, fmt.Sprintf(`\I%s%s\I (%s): %s`, prefix, f.Name, f.Type, f.Description))
	}
	for i := range s.Nested {
		n := &s.Nested[i]
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("(anonymous %d)", i+1)
		}
		items = fieldItems(n, prefix+name+".", items)
	}
	return items
}

func structureGroup(s *entity.Structure) (Group, error) {
	b := newBuilder(s.Name, entity.CategoryStructure, s.Line)
	b.nameLine(s.Brief)
	b.includes(s.Inclusions)
	sig := embed.StructureSignature(s)
	b.section(SectionSynopsis, strings.Join(sig, "\n"))
	items := fieldItems(s, "", nil)
	if s.Description != "" || len(items) > 0 {
		b.section(SectionDescription, b.markup(s.Description))
	}
	b.appendList(SectionDescription, "Fields:", items)
	b.g.Embeds = []embed.Fragment{{Kind: entity.KindStructure, Name: s.Name, Brief: s.Brief, Signature: sig}}
	b.g.References = s.References
	return b.done()
}

func projectGroup(p *entity.Project, kind string) (Group, error) {
	b := newBuilder(p.Name, kind, p.Line)
	b.nameLine(p.Brief)
	b.includes(p.Inclusions)
	if len(p.Inclusions) > 0 || len(p.Embeds) > 0 {
		b.section(SectionSynopsis, "")
	}
	b.text(SectionDescription, p.Description)
	b.text(SectionOptions, p.Arguments)
	b.text(SectionNotes, p.Notes)
	b.code(SectionExamples, p.Example)
	// Request lines are kept for error reports; the wire form drops them.
	b.g.Requests = append(b.g.Requests, p.Embeds...)
	b.g.References = p.References
	return b.done()
}
