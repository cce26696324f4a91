package field

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/tag"
)

var scanner = tag.Scanner{Close: "*/", MaxLine: 200}

func success(text string) tag.Tag {
	return tag.Tag{Status: tag.Success, Text: text, Number: 7}
}

func TestLine(t *testing.T) {
	descs := []string{"adds two integers", "x", "value: with colon", "  leading blanks", "ünïcode"}
	for _, desc := range descs {
		got, err := Line(success("@brief: "+desc), "brief")
		require.NoError(t, err, desc)
		assert.Equal(t, desc, got)
	}
}

func TestLine_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing space", "@brief:adds"},
		{"missing colon", "@brief adds"},
		{"empty value", "@brief: "},
		{"blank value", "@brief:    "},
		{"nothing after name", "@brief"},
		{"other tag", "@name: add"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Line(success(tt.text), "brief")
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, errors.ErrGrammar))
			assert.Equal(t, 7, errors.LineOf(err))
		})
	}
}

func TestArg(t *testing.T) {
	arg, val, err := Arg(success("@param a: left operand"), "param", 16)
	require.NoError(t, err)
	assert.Equal(t, "a", arg)
	assert.Equal(t, "left operand", val)

	arg, val, err = Arg(success("@param _buf[16]: storage"), "param", 16)
	require.NoError(t, err)
	assert.Equal(t, "_buf[16]", arg)
	assert.Equal(t, "storage", val)
}

func TestArg_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errors.ErrorCode
	}{
		{"two spaces", "@param  a: x", errors.ErrGrammar},
		{"no space", "@parama: x", errors.ErrGrammar},
		{"digit first", "@param 1a: x", errors.ErrGrammar},
		{"space inside argument", "@param a b: x", errors.ErrGrammar},
		{"no colon", "@param a x", errors.ErrGrammar},
		{"no space after colon", "@param a:x", errors.ErrGrammar},
		{"empty value", "@param a: ", errors.ErrGrammar},
		{"argument too long", "@param " + strings.Repeat("a", 17) + ": x", errors.ErrCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Arg(success(tt.text), "param", 16)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), err.Error())
			assert.Equal(t, 7, errors.LineOf(err))
		})
	}
}

func TestBare(t *testing.T) {
	require.NoError(t, Bare(success("@struct_start"), "struct_start"))
	require.NoError(t, Bare(success("@struct_start   "), "struct_start"))
	require.Error(t, Bare(success("@struct_start: x"), "struct_start"))
}

func readBlock(t *testing.T, text string) (string, error) {
	t.Helper()
	c := cursor.New(text)
	open := scanner.Next(c)
	require.Equal(t, tag.Success, open.Status)
	return Block(scanner, c, open, "description", 64)
}

func TestBlock(t *testing.T) {
	lines := []string{"First line.", "", " indented", "Last: line"}
	var b strings.Builder
	b.WriteString(" * @description\n")
	for _, l := range lines {
		fmt.Fprintf(&b, " * @%s\n", l)
	}
	b.WriteString(" * @description\n */\n")

	got, err := readBlock(t, b.String())
	require.NoError(t, err)
	assert.Equal(t, strings.Join(lines, "\n"), got)
}

func TestBlock_Idempotent(t *testing.T) {
	text := " * @description\n * @one\n * @two\n * @description\n */\n"
	base := cursor.New(text)

	read := func(c *cursor.Cursor) string {
		open := scanner.Next(c)
		body, err := Block(scanner, c, open, "description", 64)
		require.NoError(t, err)
		return body
	}

	first := read(base.Clone())
	second := read(base.Clone())
	assert.Equal(t, "one\ntwo", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, base.Pos())
}

func TestBlock_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		code errors.ErrorCode
		line int
	}{
		{"line without marker", " * @description\n * @ok\n * plain\n * @description\n */\n", errors.ErrGrammar, 3},
		{"unterminated", " * @description\n * @ok\n */\n", errors.ErrGrammar, 1},
		{"end of file", " * @description\n * @ok\n", errors.ErrGrammar, 1},
		{"close on body line", " * @description\n * @ok */\nx\n", errors.ErrGrammar, 2},
		{"too long", " * @description\n * @" + strings.Repeat("x", 70) + "\n * @description\n */\n", errors.ErrCapacity, 1},
		{"value on opening line", " * @description: nope\n * @description\n */\n", errors.ErrGrammar, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBlock(t, tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), err.Error())
			assert.Equal(t, tt.line, errors.LineOf(err))
		})
	}
}

func TestReference(t *testing.T) {
	manual, section, err := Reference(success("@reference: printf(3)"), "reference")
	require.NoError(t, err)
	assert.Equal(t, "printf", manual)
	assert.Equal(t, "3", section)

	for _, bad := range []string{"@reference: printf3)", "@reference: printf(3", "@reference: printf)3(", "@reference: (3)", "@reference: x()"} {
		_, _, err := Reference(success(bad), "reference")
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, errors.ErrReference), bad)
	}
}

func TestInclude(t *testing.T) {
	path, system, err := Include(success("@include: <stdio.h>"), "include")
	require.NoError(t, err)
	assert.Equal(t, "stdio.h", path)
	assert.True(t, system)

	path, system, err = Include(success(`@include: "mylib.h"`), "include")
	require.NoError(t, err)
	assert.Equal(t, "mylib.h", path)
	assert.False(t, system)

	_, _, err = Include(success("@include: stdio.h"), "include")
	require.Error(t, err)
}

func TestFlag(t *testing.T) {
	on, err := Flag(success("@guard: yes"), "guard")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = Flag(success("@guard: no"), "guard")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = Flag(success("@guard: maybe"), "guard")
	require.Error(t, err)
}
