// Package tag turns the lines of an annotation comment into discrete tags.
package tag

import (
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
)

// Marker starts every tag line.
const Marker = '@'

// Status classifies one scanned line.
type Status int

const (
	Success               Status = iota // the line carries a tag
	Empty                               // the line has no tag
	Done                                // the comment closed cleanly
	EOF                                 // input ended inside the comment
	EndOfCommentOnTagLine               // a tag and the comment close share a line
	LineTooLong                         // the raw line exceeded the limit
)

var statusNames = map[Status]string{
	Success:               "success",
	Empty:                 "empty",
	Done:                  "done",
	EOF:                   "eof",
	EndOfCommentOnTagLine: "end of comment on tag line",
	LineTooLong:           "line too long",
}

func (s Status) String() string { return statusNames[s] }

// Tag is the result of one scan step.
type Tag struct {
	Status Status
	Text   string // content starting at the marker (Success only)
	Number int    // 1-based source line
	Limit  int    // the exceeded maximum (LineTooLong only)
}

// Err converts a terminal non-success status into the error an extractor
// reports. It returns nil for Success and Empty.
func (t Tag) Err() error {
	switch t.Status {
	case Done:
		return errors.NewGrammar(t.Number, "comment ended unexpectedly")
	case EOF:
		return errors.NewGrammar(t.Number, "end of file inside annotation comment")
	case EndOfCommentOnTagLine:
		return errors.NewGrammar(t.Number, "comment close marker on a tag line")
	case LineTooLong:
		return errors.NewCapacity(t.Number, "line", t.Limit)
	}
	return nil
}

// Scanner classifies comment lines.
type Scanner struct {
	Close   string // comment close marker
	MaxLine int    // maximum raw line length in characters
}

// line is a raw comment line with the facts the status rules inspect.
type line struct {
	content  string
	tooLong  bool
	hasClose bool
	hasTag   bool
	eof      bool
}

// rules are checked in priority order. The order decides which fatal status
// pathological input reports, so it must not change.
var rules = []struct {
	status Status
	match  func(l line) bool
}{
	{LineTooLong, func(l line) bool { return l.tooLong }},
	{Done, func(l line) bool { return l.hasClose && !l.hasTag }},
	{EOF, func(l line) bool { return l.eof }},
	{Empty, func(l line) bool { return !l.hasTag }},
	{EndOfCommentOnTagLine, func(l line) bool { return l.hasTag && l.hasClose }},
}

// Next reads one line from c and classifies it.
func (s Scanner) Next(c *cursor.Cursor) Tag {
	number := c.Line()
	raw := c.ReadUntil(cursor.IsNewline)
	c.Next() // newline, or no-op at EOF
	raw = strings.TrimSuffix(raw, "\r")

	content := Undecorate(raw, s.Close)
	l := line{
		content:  content,
		tooLong:  s.MaxLine > 0 && utf8.RuneCountInString(raw) > s.MaxLine,
		hasClose: strings.Contains(raw, s.Close),
		hasTag:   len(content) > 0 && content[0] == Marker,
		eof:      c.AtEOF(),
	}

	for _, rule := range rules {
		if rule.match(l) {
			t := Tag{Status: rule.status, Number: number}
			if rule.status == LineTooLong {
				t.Limit = s.MaxLine
			}
			return t
		}
	}
	return Tag{Status: Success, Text: content, Number: number}
}

// Undecorate strips leading blanks and a single comment continuation star.
func Undecorate(raw, closeMarker string) string {
	content := strings.TrimLeft(raw, " \t")
	if strings.HasPrefix(content, "*") && !strings.HasPrefix(content, closeMarker) {
		content = strings.TrimLeft(content[1:], " \t")
	}
	return content
}

// Name extracts the identifier after the marker of a Success tag. A name
// longer than max fails instead of being truncated.
func Name(t Tag, max int) (string, error) {
	if t.Status != Success || len(t.Text) == 0 || t.Text[0] != Marker {
		return "", errors.NewGrammar(t.Number, "not a tag line")
	}
	end := 1
	for end < len(t.Text) && isNameChar(t.Text[end]) {
		if end > max {
			return "", errors.NewCapacity(t.Number, "tag name", max)
		}
		end++
	}
	if end == 1 {
		return "", errors.NewGrammar(t.Number, "missing tag name after %q", string(Marker))
	}
	return t.Text[1:end], nil
}

func isNameChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
