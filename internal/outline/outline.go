// Package outline recovers the section structure of rendered pages.
package outline

import (
	"regexp"
	"strings"
)

// Section represents a parsed section boundary.
type Section struct {
	Name         string // heading text, e.g. "RETURN VALUE"
	Level        int    // 1 for the page title, 2 for sections; troff headings are 2
	HeaderStart  int    // byte offset of the heading line
	ContentStart int    // byte offset after the heading line
	ContentEnd   int    // byte offset of the next heading or EOF
	Empty        bool   // true if the body is blank
}

// Content returns the body of s within text.
func (s Section) Content(text string) string {
	return text[s.ContentStart:s.ContentEnd]
}

// headerPattern matches markdown headers (h1-h6) at the start of a line.
// Groups: full match, hash symbols, header text
var headerPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+([^\n]+?)[ \t]*$`)

// fencePattern matches fenced code block delimiters (``` or ~~~) at the start of a line,
// allowing 0-3 spaces of indentation per CommonMark.
var fencePattern = regexp.MustCompile("(?m)^[ ]{0,3}(`{3,}|~{3,})")

// troffPattern matches .SH and .TH requests; quoted arguments lose their quotes.
var troffPattern = regexp.MustCompile(`(?m)^\.(SH|TH)[ \t]+("([^"\n]*)"|[^\n]*?)[ \t]*$`)

// fencedRanges returns byte offset ranges [start, end) for fenced code blocks in text.
// A closing fence must use the opening character and be at least as long.
func fencedRanges(text string) [][2]int {
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return nil
	}

	var ranges [][2]int
	var openChar byte
	var openLen, openStart int
	inFence := false

	for _, match := range matches {
		fenceChars := text[match[2]:match[3]]
		char := fenceChars[0]

		if !inFence {
			openChar = char
			openLen = len(fenceChars)
			openStart = match[0]
			inFence = true
		} else if char == openChar && len(fenceChars) >= openLen {
			ranges = append(ranges, [2]int{openStart, match[1]})
			inFence = false
		}
	}
	return ranges
}

func insideFence(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// heading is one matched heading before boundaries are computed.
type heading struct {
	start, end int
	level      int
	name       string
}

// Markdown finds the headings of a Markdown page. Headings inside fenced
// code blocks are ignored.
func Markdown(text string) []Section {
	fences := fencedRanges(text)
	var hs []heading
	for _, m := range headerPattern.FindAllStringSubmatchIndex(text, -1) {
		if insideFence(m[0], fences) {
			continue
		}
		hs = append(hs, heading{start: m[0], end: m[1], level: m[3] - m[2], name: text[m[4]:m[5]]})
	}
	return sections(text, hs)
}

// Troff finds the .TH title and .SH headings of a manual page.
func Troff(text string) []Section {
	var hs []heading
	for _, m := range troffPattern.FindAllStringSubmatchIndex(text, -1) {
		level := 2
		if text[m[2]:m[3]] == "TH" {
			level = 1
		}
		name := text[m[4]:m[5]]
		if m[6] >= 0 {
			name = text[m[6]:m[7]]
		}
		hs = append(hs, heading{start: m[0], end: m[1], level: level, name: name})
	}
	return sections(text, hs)
}

// Parse dispatches on the output format name ("manpage" or "markdown").
func Parse(format, text string) []Section {
	if format == "manpage" {
		return Troff(text)
	}
	return Markdown(text)
}

func sections(text string, hs []heading) []Section {
	if len(hs) == 0 {
		return nil
	}
	out := make([]Section, len(hs))
	for i, h := range hs {
		contentStart := h.end
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}
		contentEnd := len(text)
		if i+1 < len(hs) {
			contentEnd = hs[i+1].start
		}
		if contentStart > contentEnd {
			contentStart = contentEnd
		}
		out[i] = Section{
			Name:         h.name,
			Level:        h.level,
			HeaderStart:  h.start,
			ContentStart: contentStart,
			ContentEnd:   contentEnd,
			Empty:        strings.TrimSpace(text[contentStart:contentEnd]) == "",
		}
	}
	return out
}

// Find finds a section by name (case-insensitive).
func Find(sections []Section, name string) *Section {
	name = strings.TrimSpace(name)
	for i := range sections {
		if strings.EqualFold(sections[i].Name, name) {
			return &sections[i]
		}
	}
	return nil
}

// Names returns the names of the level-2 sections, in page order.
func Names(sections []Section) []string {
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Level == 2 {
			names = append(names, s.Name)
		}
	}
	return names
}

// Anchor returns the heading id goldmark's auto heading IDs assign to name:
// lower-cased letters and digits, spaces become hyphens, anything else is
// dropped.
func Anchor(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
