package markup

import (
	"strings"
)

// Markdown renders GitHub-flavoured Markdown.
var Markdown Backend = markdown{}

type markdown struct{}

var mdEscaper = strings.NewReplacer("*", `\*`, "`", "\\`")

// blockLeaders start a Markdown block when they open a line.
const blockLeaders = "#->+=|~"

func (markdown) Text(s string) string { return mdEscaper.Replace(s) }

func (markdown) Font(from, to Style) string {
	var s string
	if from.Italic && !to.Italic {
		s += "_"
	}
	if from.Bold != to.Bold {
		s += "**"
	}
	if !from.Italic && to.Italic {
		s += "_"
	}
	return s
}

func (markdown) Backslash() string { return `\\` }

func (markdown) Paragraph(s string) string {
	indent := len(s) - len(strings.TrimLeft(s, " "))
	if indent >= len(s) || indent > 3 {
		return s
	}
	lead, rest := s[:indent], s[indent:]
	if strings.IndexByte(blockLeaders, rest[0]) >= 0 {
		return lead + `\` + rest
	}
	// "1." and "1)" open ordered lists.
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(rest) && (rest[digits] == '.' || rest[digits] == ')') {
		return lead + rest[:digits] + `\` + rest[digits:]
	}
	return s
}

func (markdown) Table(_ rune, header []string, rows [][]string) []string {
	row := func(cells []string) string {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		return "| " + strings.Join(escaped, " | ") + " |"
	}
	rule := make([]string, len(header))
	for i := range rule {
		rule[i] = "---"
	}
	out := []string{"", row(header), row(rule)}
	for _, r := range rows {
		out = append(out, row(r))
	}
	return append(out, "")
}

func (markdown) List(items []string) []string {
	out := make([]string, 0, len(items)+2)
	out = append(out, "")
	for _, item := range items {
		out = append(out, "- "+item)
	}
	return append(out, "")
}
