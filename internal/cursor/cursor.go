// Package cursor provides the character cursor every docgen parser reads through.
//
// A Cursor is an index over an immutable buffer with line/column tracking and
// single-character pushback. Cursors are small values: copying one (or calling
// Clone) yields an independent reader over the same buffer, which is how each
// entity extractor gets its own pass over a file.
package cursor

import "unicode/utf8"

// EOF is returned by Peek and Next at end of input.
const EOF rune = -1

// Cursor reads characters from a borrowed text buffer.
type Cursor struct {
	buf  string
	pos  int // byte offset, 0 <= pos <= len(buf)
	line int // 1-based
	col  int // 0-based, in characters

	// Pushback marks a caller's speculative parse. The cursor only exposes it;
	// Unget works regardless.
	Pushback bool
}

// New returns a cursor positioned at the start of text.
func New(text string) *Cursor {
	return &Cursor{buf: text, line: 1}
}

// Clone returns an independent cursor at the same position.
func (c *Cursor) Clone() *Cursor {
	cp := *c
	return &cp
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Line returns the 1-based line of the next character.
func (c *Cursor) Line() int { return c.line }

// Column returns the 0-based column of the next character.
func (c *Cursor) Column() int { return c.col }

// AtEOF reports whether all input has been consumed.
func (c *Cursor) AtEOF() bool { return c.pos >= len(c.buf) }

// Peek returns the next character without consuming it.
func (c *Cursor) Peek() rune {
	if c.pos >= len(c.buf) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(c.buf[c.pos:])
	return r
}

// Next consumes and returns the next character, or EOF.
func (c *Cursor) Next() rune {
	if c.pos >= len(c.buf) {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(c.buf[c.pos:])
	c.pos += size
	if r == '\n' {
		c.line++
		c.col = 0
	} else {
		c.col++
	}
	return r
}

// Unget steps back one character. It reports false at the start of input.
func (c *Cursor) Unget() bool {
	if c.pos == 0 {
		return false
	}
	r, size := utf8.DecodeLastRuneInString(c.buf[:c.pos])
	c.pos -= size
	if r != '\n' {
		c.col--
		return true
	}

	// Stepped back over a newline: rescan to the previous one for the column.
	c.line--
	c.col = 0
	for i := c.pos; i > 0; {
		r, size := utf8.DecodeLastRuneInString(c.buf[:i])
		if r == '\n' {
			break
		}
		c.col++
		i -= size
	}
	return true
}

// SkipWhile consumes characters while match holds and returns how many it skipped.
func (c *Cursor) SkipWhile(match func(rune) bool) int {
	n := 0
	for {
		r := c.Peek()
		if r == EOF || !match(r) {
			return n
		}
		c.Next()
		n++
	}
}

// ReadUntil consumes and returns characters up to, not including, the first
// one for which stop holds (or end of input).
func (c *Cursor) ReadUntil(stop func(rune) bool) string {
	start := c.pos
	for {
		r := c.Peek()
		if r == EOF || stop(r) {
			return c.buf[start:c.pos]
		}
		c.Next()
	}
}

// ExpectLiteral consumes lit and reports true on an exact match. On a
// mismatch the cursor is left unchanged.
func (c *Cursor) ExpectLiteral(lit string) bool {
	if len(c.buf)-c.pos < len(lit) || c.buf[c.pos:c.pos+len(lit)] != lit {
		return false
	}
	for range lit {
		c.Next()
	}
	return true
}

// IsNewline matches the line terminator.
func IsNewline(r rune) bool { return r == '\n' }

// IsBlank matches spaces and tabs.
func IsBlank(r rune) bool { return r == ' ' || r == '\t' }
