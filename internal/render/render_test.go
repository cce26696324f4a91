package render

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/tools/txtar"

	"github.com/hpungsan/docgen/internal/compile"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/entity"
	"github.com/hpungsan/docgen/internal/errors"
)

func loadCalc(t *testing.T) (map[string]string, *compile.Document) {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", "calc.txtar"))
	require.NoError(t, err)
	files := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = string(f.Data)
	}

	pools, err := entity.Extract(files["source.c"], entity.DefaultOptions())
	require.NoError(t, err)
	doc, err := compile.Compile(pools)
	require.NoError(t, err)
	return files, doc
}

func TestRender_Golden(t *testing.T) {
	files, doc := loadCalc(t)

	for _, format := range []string{"manpage", "markdown"} {
		t.Run(format, func(t *testing.T) {
			pages, err := Render(doc, Options{Format: format, Section: "3"})
			require.NoError(t, err)
			require.Len(t, pages, 3)

			checked := 0
			for _, p := range pages {
				want, ok := files[p.File]
				if !ok {
					continue
				}
				checked++
				if diff := cmp.Diff(want, p.Content); diff != "" {
					t.Errorf("%s mismatch (-want +got):\n%s", p.File, diff)
				}
			}
			assert.NotZero(t, checked)
		})
	}
}

func TestRender_FileNames(t *testing.T) {
	_, doc := loadCalc(t)

	pages, err := Render(doc, Options{Format: "manpage", Section: "3x"})
	require.NoError(t, err)
	var names []string
	for _, p := range pages {
		names = append(names, p.File)
	}
	assert.Equal(t, []string{"calc.3x", "add.3x", "CALC_MAX.3x"}, names)

	pages, err = Render(doc, Options{Format: "markdown"})
	require.NoError(t, err)
	assert.Equal(t, "calc.md", pages[0].File)
	assert.Equal(t, "project", pages[0].Kind)
}

func TestRender_MarkdownIsValidGFM(t *testing.T) {
	_, doc := loadCalc(t)
	pages, err := Render(doc, Options{Format: "markdown"})
	require.NoError(t, err)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte(pages[0].Content), &buf))
	html := buf.String()
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<th>Symbol</th>")
	assert.Contains(t, html, "<h2>SYNOPSIS</h2>")
}

func TestRender_UnknownEmbed(t *testing.T) {
	doc := &compile.Document{Groups: []compile.Group{{
		Name:     "calc",
		Kind:     "project",
		Sections: []compile.Section{{Name: compile.SectionName, Body: "calc - x"}},
		Requests: []entity.EmbedRequest{{Kind: entity.KindFunction, Name: "sub"}},
	}}}

	pages, err := Render(doc, Options{Format: "manpage"})
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.True(t, errors.Is(err, errors.ErrReference))
	assert.Contains(t, err.Error(), "unknown embed `sub`")

	de, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "calc", de.Details["group"])
}

func TestRender_ExtraSource(t *testing.T) {
	doc := &compile.Document{Groups: []compile.Group{{
		Name:     "calc",
		Requests: []entity.EmbedRequest{{Kind: entity.KindFunction, Name: "sub"}},
	}}}
	extra := embed.PoolSource{Pools: &entity.Pools{Functions: []entity.Function{{Name: "sub", Brief: "subtracts"}}}}

	page, err := Group(&doc.Groups[0], Options{Format: "markdown", Extra: extra})
	require.NoError(t, err)
	assert.Equal(t, "# calc(3)\n\n## SYNOPSIS\n\n```c\nvoid sub(void);\n```\n", page.Content)
}

func TestRender_InvalidMarkupFailsWholeDocument(t *testing.T) {
	_, doc := loadCalc(t)
	doc.Groups = append(doc.Groups, compile.Group{
		Name:     "broken",
		Sections: []compile.Section{{Name: compile.SectionNotes, Body: "\\T\n\\S ;\nA;B\n1;2"}},
	})

	pages, err := Render(doc, Options{Format: "manpage"})
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.Contains(t, err.Error(), "unclosed table")

	de, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "NOTES", de.Details["section"])
	assert.Equal(t, "broken", de.Details["group"])
}

func TestRender_Formats(t *testing.T) {
	doc := &compile.Document{}
	for _, f := range []string{"gml", "bookmaster", "html"} {
		_, err := Render(doc, Options{Format: f})
		require.Error(t, err, f)
		assert.True(t, errors.Is(err, errors.ErrConfig))
	}
}

func TestManpage_CodeEscapes(t *testing.T) {
	got := manpage{}.code(".hidden\nprintf(\"\\n\");")
	assert.Equal(t, []string{".nf", "\\&.hidden", "printf(\"\\en\");", ".fi"}, got)
}
