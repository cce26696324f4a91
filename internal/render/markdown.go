package render

import (
	"strings"

	"github.com/hpungsan/docgen/internal/compile"
	"github.com/hpungsan/docgen/internal/markup"
)

type markdownPage struct{}

func (markdownPage) markup() markup.Backend { return markup.Markdown }

func (markdownPage) file(name, _ string) string { return name + ".md" }

func (markdownPage) title(g *compile.Group, section string) []string {
	return []string{"# " + g.Name + "(" + section + ")", ""}
}

func (markdownPage) heading(name string) []string {
	return []string{"## " + name, ""}
}

func (markdownPage) name(rendered string) []string {
	return []string{rendered, ""}
}

func (markdownPage) text(rendered string) []string {
	return append(strings.Split(strings.Trim(rendered, "\n"), "\n"), "")
}

func (markdownPage) code(body string) []string {
	out := []string{"```c"}
	out = append(out, strings.Split(body, "\n")...)
	return append(out, "```", "")
}

func (markdownPage) references(refs []referenceLine) []string {
	items := make([]string, 0, len(refs))
	for _, r := range refs {
		items = append(items, "**"+r.manual+"**("+r.section+")")
	}
	return []string{strings.Join(items, ", "), ""}
}
