package compile

import (
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/docgen/internal/errors"
)

const tableWord = "table"

// convertTables rewrites every "table" region of a text block into table
// markers:
//
//	table            \T
//	sep: ;           \S ;
//	A;B        ->    A;B
//	1;2              1;2
//	table            \T
//
// line is the record line used for errors.
func convertTables(body string, line int) (string, error) {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != tableWord {
			out = append(out, lines[i])
			continue
		}
		i++
		if i >= len(lines) {
			return "", errors.NewGrammar(line, "table region: missing \"sep: <char>\" line")
		}
		sep, ok := strings.CutPrefix(strings.TrimSpace(lines[i]), "sep:")
		sep = strings.TrimSpace(sep)
		if !ok || utf8.RuneCountInString(sep) != 1 {
			return "", errors.NewGrammar(line, "table region: expected \"sep: <char>\", got %q", lines[i])
		}
		out = append(out, `\T`, `\S `+sep)

		closed := false
		for i++; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == tableWord {
				closed = true
				break
			}
			out = append(out, lines[i])
		}
		if !closed {
			return "", errors.NewGrammar(line, "table region: missing closing %q line", tableWord)
		}
		out = append(out, `\T`)
	}
	return strings.Join(out, "\n"), nil
}
