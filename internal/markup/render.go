package markup

import (
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/docgen/internal/errors"
)

// Style is the inline font state.
type Style struct {
	Bold   bool
	Italic bool
}

// Backend turns validated marker structures into one output language.
type Backend interface {
	// Text escapes plain text for the output language.
	Text(s string) string
	// Font switches from one inline style to another.
	Font(from, to Style) string
	// Backslash renders a literal backslash.
	Backslash() string
	// Paragraph renders one rendered text line; "" is a paragraph break.
	Paragraph(s string) string
	// Table renders a header and its rows of rendered cells.
	Table(sep rune, header []string, rows [][]string) []string
	// List renders rendered list items.
	List(items []string) []string
}

// Render validates text and renders it with b. Nothing is returned unless
// the whole text is valid.
func Render(text string, b Backend) (string, error) {
	lines, err := validate(text)
	if err != nil {
		return "", err
	}
	r := renderer{b: b, lines: lines}
	if err := r.run(); err != nil {
		return "", err
	}
	return strings.Join(r.out, "\n"), nil
}

type renderer struct {
	b     Backend
	lines []line
	pos   int
	style Style
	out   []string
}

func (r *renderer) run() error {
	for r.pos < len(r.lines) {
		l := r.lines[r.pos]
		r.pos++

		if esc, ok := alone(l); ok && (esc == Table || esc == List) {
			if r.style != (Style{}) {
				return errors.NewGrammar(l.number, "formatting span crosses a %s", blockName(esc))
			}
			var err error
			if esc == Table {
				err = r.table(l)
			} else {
				err = r.list(l)
			}
			if err != nil {
				return err
			}
			continue
		}

		s, err := r.inline(l.number, l.pieces)
		if err != nil {
			return err
		}
		r.out = append(r.out, r.b.Paragraph(s))
	}
	return nil
}

// alone reports the escape of a line holding a single escape and blanks.
func alone(l line) (byte, bool) {
	var esc byte
	for _, p := range l.pieces {
		switch {
		case p.esc == 0 && strings.TrimSpace(p.text) == "":
		case p.esc != 0 && esc == 0:
			esc = p.esc
		default:
			return 0, false
		}
	}
	return esc, esc != 0
}

// next returns the following line or fails at the opening line.
func (r *renderer) next(open line, what string) (line, error) {
	if r.pos >= len(r.lines) {
		return line{}, errors.NewGrammar(open.number, "unclosed %s", what)
	}
	l := r.lines[r.pos]
	r.pos++
	return l, nil
}

// strip removes a leading "\X " prefix.
func strip(pieces []piece, esc byte) []piece {
	if len(pieces) == 0 || pieces[0].esc != esc {
		return pieces
	}
	rest := append([]piece(nil), pieces[1:]...)
	if len(rest) > 0 && rest[0].esc == 0 {
		rest[0].text = strings.TrimPrefix(rest[0].text, " ")
		if rest[0].text == "" {
			rest = rest[1:]
		}
	}
	return rest
}

func blank(pieces []piece) bool {
	for _, p := range pieces {
		if p.esc != 0 || strings.TrimSpace(p.text) != "" {
			return false
		}
	}
	return true
}

func (r *renderer) table(open line) error {
	sepLine, err := r.next(open, "table")
	if err != nil {
		return err
	}
	ps := sepLine.pieces
	if len(ps) != 2 || ps[0].esc != Separator || ps[1].esc != 0 {
		return errors.NewGrammar(sepLine.number, "table: expected \\S <separator>")
	}
	sepText := strings.TrimSpace(ps[1].text)
	if utf8.RuneCountInString(sepText) != 1 {
		return errors.NewGrammar(sepLine.number, "table: separator must be one character, got %q", sepText)
	}
	sep, _ := utf8.DecodeRuneInString(sepText)

	var header []string
	var rows [][]string
	for {
		l, err := r.next(open, "table")
		if err != nil {
			return err
		}
		if esc, ok := alone(l); ok && esc == Table {
			break
		}
		prefix, what := byte(Element), "element"
		if header == nil {
			prefix, what = Header, "header"
		}
		pieces := strip(l.pieces, prefix)
		if blank(pieces) {
			return errors.NewGrammar(l.number, "table: empty %s line", what)
		}
		cells, err := r.cells(l.number, pieces, sep)
		if err != nil {
			return err
		}
		if header == nil {
			header = cells
			continue
		}
		if len(cells) != len(header) {
			return errors.NewGrammar(l.number, "table: row has %d columns, header has %d", len(cells), len(header))
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return errors.NewGrammar(open.number, "table: missing header line")
	}
	if len(rows) == 0 {
		return errors.NewGrammar(open.number, "table: no element lines")
	}
	r.out = append(r.out, r.b.Table(sep, header, rows)...)
	return nil
}

// cells splits pieces on sep and renders each cell.
func (r *renderer) cells(number int, pieces []piece, sep rune) ([]string, error) {
	var cells [][]piece
	cur := []piece{}
	for _, p := range pieces {
		if p.esc != 0 {
			cur = append(cur, p)
			continue
		}
		parts := strings.Split(p.text, string(sep))
		for i, part := range parts {
			if i > 0 {
				cells = append(cells, cur)
				cur = []piece{}
			}
			if part != "" {
				cur = append(cur, piece{text: part})
			}
		}
	}
	cells = append(cells, cur)

	out := make([]string, 0, len(cells))
	for _, c := range cells {
		s, err := r.inline(number, c)
		if err != nil {
			return nil, err
		}
		if r.style != (Style{}) {
			return nil, errors.NewGrammar(number, "formatting span crosses a table cell")
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out, nil
}

func (r *renderer) list(open line) error {
	var items []string
	for {
		l, err := r.next(open, "list")
		if err != nil {
			return err
		}
		if esc, ok := alone(l); ok && esc == List {
			break
		}
		pieces := strip(l.pieces, Element)
		if blank(pieces) {
			return errors.NewGrammar(l.number, "list: empty item")
		}
		s, err := r.inline(l.number, pieces)
		if err != nil {
			return err
		}
		if r.style != (Style{}) {
			return errors.NewGrammar(l.number, "formatting span crosses a list item")
		}
		items = append(items, s)
	}
	if len(items) == 0 {
		return errors.NewGrammar(open.number, "list: no items")
	}
	r.out = append(r.out, r.b.List(items)...)
	return nil
}

// inline renders text, font toggles and literal backslashes.
func (r *renderer) inline(number int, pieces []piece) (string, error) {
	var b strings.Builder
	for _, p := range pieces {
		switch p.esc {
		case 0:
			b.WriteString(r.b.Text(p.text))
		case Backslash:
			b.WriteString(r.b.Backslash())
		case Bold, Italic:
			next := r.style
			if p.esc == Bold {
				next.Bold = !next.Bold
			} else {
				next.Italic = !next.Italic
			}
			b.WriteString(r.b.Font(r.style, next))
			r.style = next
		case Table, List:
			return "", errors.NewGrammar(number, "\\%c must stand on a line of its own", p.esc)
		default:
			return "", errors.NewGrammar(number, "\\%c outside a table or list", p.esc)
		}
	}
	return b.String(), nil
}
