package markup

import (
	"strings"
)

// Troff renders man(7) markup.
var Troff Backend = troff{}

type troff struct{}

func (troff) Text(s string) string { return s }

func (troff) Font(_, to Style) string {
	switch {
	case to.Bold && to.Italic:
		return `\f(BI`
	case to.Bold:
		return `\fB`
	case to.Italic:
		return `\fI`
	}
	return `\fR`
}

func (troff) Backslash() string { return `\e` }

func (troff) Paragraph(s string) string {
	if s == "" {
		return ".PP"
	}
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "'") {
		return `\&` + s
	}
	return s
}

func (troff) Table(sep rune, header []string, rows [][]string) []string {
	tab := string(sep)
	head := strings.TrimSpace(strings.Repeat("lB ", len(header)))
	body := strings.TrimSpace(strings.Repeat("l ", len(header)))
	out := []string{".TS", "allbox tab(" + tab + ");", head, body + ".", strings.Join(header, tab)}
	for _, row := range rows {
		out = append(out, strings.Join(row, tab))
	}
	return append(out, ".TE")
}

func (troff) List(items []string) []string {
	out := make([]string, 0, 2*len(items))
	for _, item := range items {
		out = append(out, `.IP \(bu 2`, item)
	}
	return out
}
