package render

import (
	"strings"

	"github.com/hpungsan/docgen/internal/compile"
	"github.com/hpungsan/docgen/internal/markup"
)

type manpage struct{}

func (manpage) markup() markup.Backend { return markup.Troff }

func (manpage) file(name, section string) string { return name + "." + section }

func (manpage) title(g *compile.Group, section string) []string {
	return []string{".TH " + strings.ToUpper(g.Name) + " " + section}
}

func (manpage) heading(name string) []string {
	if strings.ContainsAny(name, " \t") {
		return []string{`.SH "` + name + `"`}
	}
	return []string{".SH " + name}
}

func (manpage) name(rendered string) []string {
	return []string{strings.Replace(rendered, " - ", ` \- `, 1)}
}

func (manpage) text(rendered string) []string {
	return strings.Split(rendered, "\n")
}

var troffCode = strings.NewReplacer(`\`, `\e`)

func (manpage) code(body string) []string {
	out := []string{".nf"}
	for _, l := range strings.Split(body, "\n") {
		l = troffCode.Replace(l)
		if strings.HasPrefix(l, ".") || strings.HasPrefix(l, "'") {
			l = `\&` + l
		}
		out = append(out, l)
	}
	return append(out, ".fi")
}

func (manpage) references(refs []referenceLine) []string {
	out := make([]string, 0, len(refs))
	for i, r := range refs {
		l := ".BR " + r.manual + " (" + r.section + ")"
		if i < len(refs)-1 {
			l += ","
		}
		out = append(out, l)
	}
	return out
}
