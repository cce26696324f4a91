package compile

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

// Protocol directives.
const (
	startGroup   = "START_GROUP"
	endGroup     = "END_GROUP"
	startSection = "START_SECTION"
	endSection   = "END_SECTION"
	startPrepend = "START_PREPEND_TO"
	endPrepend   = "END_PREPEND_TO"
	startAppend  = "START_APPEND_TO"
	endAppend    = "END_APPEND_TO"
	startEmbed   = "START_EMBED"
	endEmbed     = "END_EMBED"
	startRequest = "START_EMBED_REQUEST"
	endRequest   = "END_EMBED_REQUEST"
	startRef     = "START_REFERENCE"
	endRef       = "END_REFERENCE"
)

// bodyPrefix starts every body line so no body line reads as a directive.
const bodyPrefix = "|"

// Encode writes doc in the line-oriented compiled form.
func Encode(doc *Document) string {
	var b strings.Builder
	for _, g := range doc.Groups {
		b.WriteString(startGroup + " " + g.Name)
		if g.Kind != "" {
			b.WriteString(" " + g.Kind)
		}
		b.WriteByte('\n')
		writeSections(&b, startSection, endSection, g.Sections)
		writeSections(&b, startPrepend, endPrepend, g.Prepends)
		writeSections(&b, startAppend, endAppend, g.Appends)
		for _, f := range g.Embeds {
			b.WriteString(startEmbed + " " + f.Name + "\n")
			b.WriteString(strconv.Itoa(int(f.Kind)) + "\n")
			b.WriteString(bodyPrefix + f.Brief + "\n")
			for _, l := range f.Signature {
				b.WriteString(bodyPrefix + l + "\n")
			}
			b.WriteString(endEmbed + "\n")
		}
		for _, r := range g.Requests {
			b.WriteString(startRequest + " " + r.Name + "\n")
			b.WriteString(strconv.Itoa(int(r.Kind)) + "\n")
			if r.AllowBrief {
				b.WriteString("1\n")
			} else {
				b.WriteString("0\n")
			}
			b.WriteString(endRequest + "\n")
		}
		for _, r := range g.References {
			b.WriteString(startRef + "\n" + r.Manual + "\n" + r.Section + "\n" + endRef + "\n")
		}
		b.WriteString(endGroup + "\n")
	}
	return b.String()
}

func writeSections(b *strings.Builder, start, end string, sections []Section) {
	for _, s := range sections {
		b.WriteString(start + " " + s.Name + "\n")
		if s.Body != "" {
			for _, l := range strings.Split(s.Body, "\n") {
				b.WriteString(bodyPrefix + l + "\n")
			}
		}
		b.WriteString(end + "\n")
	}
}

// decoder reads the compiled form one line at a time.
type decoder struct {
	sc   *bufio.Scanner
	line int
	text string
}

func (d *decoder) next() bool {
	if !d.sc.Scan() {
		return false
	}
	d.line++
	d.text = strings.TrimSuffix(d.sc.Text(), "\r")
	return true
}

func (d *decoder) fail(format string, args ...any) error {
	return errors.NewGrammar(d.line, format, args...)
}

// expect reads the next line, failing at end of input.
func (d *decoder) expect(what string) (string, error) {
	if !d.next() {
		return "", errors.NewGrammar(d.line, "unexpected end of input, expected %s", what)
	}
	return d.text, nil
}

// body reads prefixed lines until the end directive.
func (d *decoder) body(end string) ([]string, error) {
	var lines []string
	for {
		l, err := d.expect(end)
		if err != nil {
			return nil, err
		}
		if l == end {
			return lines, nil
		}
		text, ok := strings.CutPrefix(l, bodyPrefix)
		if !ok {
			return nil, d.fail("expected body line or %s, got %q", end, l)
		}
		lines = append(lines, text)
	}
}

// Decode parses the compiled form produced by Encode.
func Decode(text string) (*Document, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	d := &decoder{sc: sc}
	doc := &Document{}

	for d.next() {
		if d.text == "" {
			continue
		}
		args, ok := directive(d.text, startGroup)
		if !ok {
			return nil, d.fail("expected %s, got %q", startGroup, d.text)
		}
		fields := strings.Fields(args)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, d.fail("%s takes a name and an optional kind", startGroup)
		}
		g := Group{Name: fields[0]}
		if len(fields) == 2 {
			g.Kind = fields[1]
		}
		if err := d.group(&g); err != nil {
			return nil, err
		}
		doc.Groups = append(doc.Groups, g)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return doc, nil
}

// directive matches "NAME" or "NAME args" and returns args.
func directive(line, name string) (string, bool) {
	if line == name {
		return "", true
	}
	args, ok := strings.CutPrefix(line, name+" ")
	return args, ok
}

func (d *decoder) group(g *Group) error {
	for {
		l, err := d.expect(endGroup)
		if err != nil {
			return err
		}
		if l == endGroup {
			return nil
		}

		if name, ok := directive(l, startSection); ok {
			s, err := d.section(name, endSection)
			if err != nil {
				return err
			}
			g.Sections = append(g.Sections, s)
			continue
		}
		if name, ok := directive(l, startPrepend); ok {
			s, err := d.section(name, endPrepend)
			if err != nil {
				return err
			}
			g.Prepends = append(g.Prepends, s)
			continue
		}
		if name, ok := directive(l, startAppend); ok {
			s, err := d.section(name, endAppend)
			if err != nil {
				return err
			}
			g.Appends = append(g.Appends, s)
			continue
		}
		if name, ok := directive(l, startRequest); ok {
			r, err := d.request(name)
			if err != nil {
				return err
			}
			g.Requests = append(g.Requests, r)
			continue
		}
		if name, ok := directive(l, startEmbed); ok {
			f, err := d.embed(name)
			if err != nil {
				return err
			}
			g.Embeds = append(g.Embeds, f)
			continue
		}
		if l == startRef {
			r, err := d.reference()
			if err != nil {
				return err
			}
			g.References = append(g.References, r)
			continue
		}
		return d.fail("unknown directive %q in group %s", l, g.Name)
	}
}

func (d *decoder) section(name, end string) (Section, error) {
	if name == "" {
		return Section{}, d.fail("section name missing")
	}
	lines, err := d.body(end)
	if err != nil {
		return Section{}, err
	}
	return Section{Name: name, Body: strings.Join(lines, "\n")}, nil
}

func (d *decoder) kind(what string) (entity.Kind, error) {
	l, err := d.expect(what + " kind")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(l)
	if err != nil || entity.Kind(n).String() == "unknown" {
		return 0, d.fail("invalid %s kind %q", what, l)
	}
	return entity.Kind(n), nil
}

func (d *decoder) embed(name string) (embed.Fragment, error) {
	if name == "" {
		return embed.Fragment{}, d.fail("embed name missing")
	}
	k, err := d.kind("embed")
	if err != nil {
		return embed.Fragment{}, err
	}
	l, err := d.expect("embed brief")
	if err != nil {
		return embed.Fragment{}, err
	}
	brief, ok := strings.CutPrefix(l, bodyPrefix)
	if !ok {
		return embed.Fragment{}, d.fail("expected embed brief line, got %q", l)
	}
	sig, err := d.body(endEmbed)
	if err != nil {
		return embed.Fragment{}, err
	}
	return embed.Fragment{Kind: k, Name: name, Brief: brief, Signature: sig}, nil
}

func (d *decoder) request(name string) (entity.EmbedRequest, error) {
	if name == "" {
		return entity.EmbedRequest{}, d.fail("embed request name missing")
	}
	k, err := d.kind("embed request")
	if err != nil {
		return entity.EmbedRequest{}, err
	}
	l, err := d.expect("allow-brief flag")
	if err != nil {
		return entity.EmbedRequest{}, err
	}
	if l != "0" && l != "1" {
		return entity.EmbedRequest{}, d.fail("allow-brief flag must be 0 or 1, got %q", l)
	}
	r := entity.EmbedRequest{Kind: k, Name: name, AllowBrief: l == "1"}
	if err := d.end(endRequest); err != nil {
		return entity.EmbedRequest{}, err
	}
	return r, nil
}

func (d *decoder) reference() (entity.Reference, error) {
	manual, err := d.expect("reference manual")
	if err != nil {
		return entity.Reference{}, err
	}
	section, err := d.expect("reference section")
	if err != nil {
		return entity.Reference{}, err
	}
	if manual == "" || section == "" {
		return entity.Reference{}, d.fail("reference needs a manual and a section")
	}
	if err := d.end(endRef); err != nil {
		return entity.Reference{}, err
	}
	return entity.Reference{Manual: manual, Section: section}, nil
}

func (d *decoder) end(want string) error {
	l, err := d.expect(want)
	if err != nil {
		return err
	}
	if l != want {
		return d.fail("expected %s, got %q", want, l)
	}
	return nil
}
