package tag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/docgen/internal/cursor"
	"github.com/hpungsan/docgen/internal/errors"
)

func scanAll(t *testing.T, text string) []Tag {
	t.Helper()
	s := Scanner{Close: "*/", MaxLine: 40}
	c := cursor.New(text)
	var tags []Tag
	for {
		tg := s.Next(c)
		tags = append(tags, tg)
		if tg.Status != Success && tg.Status != Empty {
			return tags
		}
	}
}

func TestNext_CommentBody(t *testing.T) {
	text := " * @name: add\n *\n * plain prose\n * @brief: adds\n */\n"
	tags := scanAll(t, text)

	require.Len(t, tags, 5)
	assert.Equal(t, Tag{Status: Success, Text: "@name: add", Number: 1}, tags[0])
	assert.Equal(t, Empty, tags[1].Status)
	assert.Equal(t, Empty, tags[2].Status)
	assert.Equal(t, Tag{Status: Success, Text: "@brief: adds", Number: 4}, tags[3])
	assert.Equal(t, Done, tags[4].Status)
	assert.Equal(t, 5, tags[4].Number)
}

func TestNext_StatusPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Status
	}{
		{"close without tag", "  */\nrest", Done},
		// The close check runs before the end-of-input check.
		{"close at end of input", "  */", Done},
		{"tag at end of input", " * @name: x", EOF},
		{"empty line at end of input", " *\n", EOF},
		{"no tag", " * words\nmore", Empty},
		{"tag and close", " * @name: x */\nmore", EndOfCommentOnTagLine},
		// Length is checked before everything else.
		{"too long with close", " * " + strings.Repeat("x", 60) + " */", LineTooLong},
		{"tag", " * @name: x\nmore", Success},
		{"email is not a tag", " * mail me@example.com\nmore", Empty},
		{"tag without star", "@name: x\nmore", Success},
		{"crlf", " * @name: x\r\nmore", Success},
	}

	s := Scanner{Close: "*/", MaxLine: 40}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Next(cursor.New(tt.text))
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestNext_LineTooLongCarriesLimit(t *testing.T) {
	s := Scanner{Close: "*/", MaxLine: 10}
	got := s.Next(cursor.New(" * @brief: much too long\n"))

	assert.Equal(t, LineTooLong, got.Status)
	assert.Equal(t, 10, got.Limit)

	err := got.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCapacity))
	assert.Equal(t, 1, errors.LineOf(err))
}

func TestNext_StripsCarriageReturn(t *testing.T) {
	s := Scanner{Close: "*/", MaxLine: 40}
	got := s.Next(cursor.New(" * @name: x\r\n */"))
	assert.Equal(t, "@name: x", got.Text)
}

func TestTagErr(t *testing.T) {
	assert.NoError(t, Tag{Status: Success}.Err())
	assert.NoError(t, Tag{Status: Empty}.Err())
	for _, st := range []Status{Done, EOF, EndOfCommentOnTagLine} {
		err := Tag{Status: st, Number: 3}.Err()
		require.Error(t, err, st.String())
		assert.True(t, errors.Is(err, errors.ErrGrammar))
		assert.Equal(t, 3, errors.LineOf(err))
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr errors.ErrorCode
	}{
		{"line field", "@name: add", "name", ""},
		{"argument field", "@param a: left", "param", ""},
		{"bare group tag", "@struct_start", "struct_start", ""},
		{"at the limit", "@abcdefghijklmnop", "abcdefghijklmnop", ""},
		{"over the limit", "@abcdefghijklmnopq: x", "", errors.ErrCapacity},
		{"missing name", "@: x", "", errors.ErrGrammar},
		{"digit ends name", "@abc1", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Name(Tag{Status: Success, Text: tt.text, Number: 2}, 16)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, 2, errors.LineOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName_RejectsNonSuccess(t *testing.T) {
	_, err := Name(Tag{Status: Empty, Number: 1}, 8)
	require.Error(t, err)
}

func TestUndecorate(t *testing.T) {
	assert.Equal(t, "@name: x", Undecorate("   *   @name: x", "*/"))
	assert.Equal(t, "*/", Undecorate("  */", "*/"))
	assert.Equal(t, "", Undecorate(" *", "*/"))
	assert.Equal(t, "text", Undecorate("\ttext", "*/"))
}
