// Package field decodes the text of individual tags.
//
// Every decoder checks the shape of its input before extracting anything and
// reports the 1-based source line of the offending tag.
package field

import (
	"strings"
	"unicode"

	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/tag"
)

// rest returns the text following "@name" on a tag line.
func rest(t tag.Tag, name string) (string, error) {
	prefix := string(tag.Marker) + name
	if t.Status != tag.Success || !strings.HasPrefix(t.Text, prefix) {
		return "", errors.NewGrammar(t.Number, "expected @%s", name)
	}
	return t.Text[len(prefix):], nil
}

// value checks the ": value" tail shared by line fields.
func value(t tag.Tag, name, tail string) (string, error) {
	if !strings.HasPrefix(tail, ":") {
		return "", errors.NewGrammar(t.Number, "@%s: missing ':' separator", name)
	}
	if !strings.HasPrefix(tail, ": ") {
		return "", errors.NewGrammar(t.Number, "@%s: missing space after ':'", name)
	}
	v := tail[2:]
	if strings.TrimSpace(v) == "" {
		return "", errors.NewGrammar(t.Number, "@%s: empty value", name)
	}
	return v, nil
}

// Line decodes "@name: value" and returns value verbatim.
func Line(t tag.Tag, name string) (string, error) {
	tail, err := rest(t, name)
	if err != nil {
		return "", err
	}
	return value(t, name, tail)
}

// Arg decodes "@name ARG: value". ARG starts with a letter or underscore and
// is a run of printable, non-blank characters no longer than maxArg.
func Arg(t tag.Tag, name string, maxArg int) (arg, val string, err error) {
	tail, err := rest(t, name)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(tail, " ") {
		return "", "", errors.NewGrammar(t.Number, "@%s: expected a single space before the argument", name)
	}
	tail = tail[1:]
	if tail == "" || !(tail[0] == '_' || unicode.IsLetter(rune(tail[0]))) {
		return "", "", errors.NewGrammar(t.Number, "@%s: argument must start with a letter", name)
	}

	end := strings.IndexByte(tail, ':')
	if end < 0 {
		return "", "", errors.NewGrammar(t.Number, "@%s: missing ':' after the argument", name)
	}
	arg = tail[:end]
	for _, r := range arg {
		if unicode.IsSpace(r) {
			return "", "", errors.NewGrammar(t.Number, "@%s: argument must not contain whitespace", name)
		}
		if !unicode.IsPrint(r) {
			return "", "", errors.NewGrammar(t.Number, "@%s: argument contains a non-printable character", name)
		}
	}
	if len(arg) > maxArg {
		return "", "", errors.NewCapacity(t.Number, "@"+name+" argument", maxArg)
	}

	val, err = value(t, name, tail[end:])
	if err != nil {
		return "", "", err
	}
	return arg, val, nil
}

// Bare checks that a group tag such as "@struct_start" carries nothing else.
func Bare(t tag.Tag, name string) error {
	tail, err := rest(t, name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(tail) != "" {
		return errors.NewGrammar(t.Number, "@%s takes no value", name)
	}
	return nil
}

// Block reads the body of a block tag whose opening line open has already been
// scanned. Every body line must start with the marker; the text after it is
// collected until a line whose post-marker text is the tag name again.
func Block(s tag.Scanner, c *cursor.Cursor, open tag.Tag, name string, maxBlock int) (string, error) {
	if err := Bare(open, name); err != nil {
		return "", err
	}

	var body strings.Builder
	first := true
	for {
		t := s.Next(c)
		switch t.Status {
		case tag.Success:
		case tag.Empty:
			return "", errors.NewGrammar(t.Number, "@%s block line must start with %q", name, string(tag.Marker))
		case tag.Done, tag.EOF:
			return "", errors.NewGrammar(open.Number, "unterminated @%s block", name)
		default:
			return "", t.Err()
		}

		text := t.Text[1:]
		if strings.TrimRight(text, " \t") == name {
			return body.String(), nil
		}
		if !first {
			body.WriteByte('\n')
		}
		first = false
		body.WriteString(text)
		if body.Len() > maxBlock {
			return "", errors.NewCapacity(open.Number, "@"+name+" block", maxBlock)
		}
	}
}

// Reference splits "manual(section)".
func Reference(t tag.Tag, name string) (manual, section string, err error) {
	v, err := Line(t, name)
	if err != nil {
		return "", "", err
	}
	open := strings.IndexByte(v, '(')
	if open < 0 {
		return "", "", errors.NewReference(t.Number, "@%s %q: missing '('", name, v)
	}
	closing := strings.LastIndexByte(v, ')')
	if closing < 0 || closing < open {
		return "", "", errors.NewReference(t.Number, "@%s %q: missing ')'", name, v)
	}
	manual = strings.TrimSpace(v[:open])
	section = strings.TrimSpace(v[open+1 : closing])
	if manual == "" || section == "" {
		return "", "", errors.NewReference(t.Number, "@%s %q: expected manual(section)", name, v)
	}
	return manual, section, nil
}

// Include decodes "<path>" (system) or "\"path\"" (local).
func Include(t tag.Tag, name string) (path string, system bool, err error) {
	v, err := Line(t, name)
	if err != nil {
		return "", false, err
	}
	v = strings.TrimSpace(v)
	switch {
	case len(v) > 2 && v[0] == '<' && v[len(v)-1] == '>':
		return v[1 : len(v)-1], true, nil
	case len(v) > 2 && v[0] == '"' && v[len(v)-1] == '"':
		return v[1 : len(v)-1], false, nil
	}
	return "", false, errors.NewGrammar(t.Number, "@%s %q: expected <path> or \"path\"", name, v)
}

// Flag decodes a yes/no line field.
func Flag(t tag.Tag, name string) (bool, error) {
	v, err := Line(t, name)
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(v) {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	}
	return false, errors.NewGrammar(t.Number, "@%s: expected yes or no, got %q", name, v)
}
