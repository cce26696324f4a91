// Package markup validates and renders the backslash marker language used in
// generated text: bold and italic toggles, tables and lists.
package markup

import (
	"strings"

	"github.com/hpungsan/docgen/internal/errors"
)

// Escape letters.
const (
	Bold      = 'B'
	Italic    = 'I'
	Table     = 'T'
	Separator = 'S'
	Header    = 'H'
	Element   = 'E'
	List      = 'L'
	Backslash = '\\'
)

const escapes = "BITSHEL\\"

// piece is either plain text or one escape.
type piece struct {
	text string
	esc  byte
}

// line is one lexed line of a marker document.
type line struct {
	number int
	pieces []piece
}

// lex splits text into lines of pieces. It is validation pass (a): a trailing
// backslash or an unknown escape letter fails.
func lex(text string) ([]line, error) {
	raw := strings.Split(text, "\n")
	out := make([]line, 0, len(raw))
	for i, s := range raw {
		l := line{number: i + 1}
		start := 0
		for j := 0; j < len(s); j++ {
			if s[j] != '\\' {
				continue
			}
			if j+1 >= len(s) {
				return nil, errors.NewGrammar(l.number, "incomplete escape at end of line")
			}
			c := s[j+1]
			if strings.IndexByte(escapes, c) < 0 {
				return nil, errors.NewGrammar(l.number, "unrecognized escape \\%c", c)
			}
			if j > start {
				l.pieces = append(l.pieces, piece{text: s[start:j]})
			}
			l.pieces = append(l.pieces, piece{esc: c})
			j++
			start = j + 1
		}
		if start < len(s) {
			l.pieces = append(l.pieces, piece{text: s[start:]})
		}
		out = append(out, l)
	}
	return out, nil
}

// checkNesting is pass (b): a table never opens inside a list and a list
// never opens inside a table.
func checkNesting(lines []line) error {
	var open byte
	for _, l := range lines {
		for _, p := range l.pieces {
			if p.esc != Table && p.esc != List {
				continue
			}
			switch open {
			case 0:
				open = p.esc
			case p.esc:
				open = 0
			default:
				return errors.NewGrammar(l.number, "%s inside %s", blockName(p.esc), blockName(open))
			}
		}
	}
	return nil
}

// checkClosed is pass (c): every table, list, bold and italic span opened is
// closed by the end of the text.
func checkClosed(lines []line) error {
	openedAt := map[byte]int{}
	for _, l := range lines {
		for _, p := range l.pieces {
			switch p.esc {
			case Table, List, Bold, Italic:
				if _, ok := openedAt[p.esc]; ok {
					delete(openedAt, p.esc)
				} else {
					openedAt[p.esc] = l.number
				}
			}
		}
	}
	for _, esc := range []byte{Table, List, Bold, Italic} {
		if n, ok := openedAt[esc]; ok {
			return errors.NewGrammar(n, "unclosed %s", blockName(esc))
		}
	}
	return nil
}

func blockName(esc byte) string {
	switch esc {
	case Table:
		return "table"
	case List:
		return "list"
	case Bold:
		return "bold span"
	case Italic:
		return "italic span"
	}
	return "\\" + string(esc)
}

// Validate runs the three validation passes over text without rendering.
func Validate(text string) error {
	_, err := validate(text)
	return err
}

func validate(text string) ([]line, error) {
	lines, err := lex(text)
	if err != nil {
		return nil, err
	}
	if err := checkNesting(lines); err != nil {
		return nil, err
	}
	if err := checkClosed(lines); err != nil {
		return nil, err
	}
	return lines, nil
}
