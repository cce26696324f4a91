package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/errors"
)

const librarySource = `#include "calc.h"

/*
 * @docgen: function
 * @name: add
 * @brief: adds two integers
 * @param a: left operand
 * @type: int
 * @param b: right operand
 * @type: int
 * @return: the sum
 * @type: int
 */
int add(int a, int b);

/*
 * @docgen: constant
 * @name: CALC_MAX
 * @value: 1000
 */
#define CALC_MAX 1000
`

const projectSource = `/*
 * @docgen: project
 * @name: calc
 * @brief: tiny calculator library
 * @embed function: add
 */
`

// writeSources writes name/content pairs into a temp dir and returns the paths.
func writeSources(t *testing.T, pairs ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := 0; i+1 < len(pairs); i += 2 {
		path := filepath.Join(dir, pairs[i])
		if err := os.WriteFile(path, []byte(pairs[i+1]), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

func TestExtract(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource, "project.c", projectSource)

	out, err := Extract(context.Background(), nil, ExtractInput{Paths: paths})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(out.Files) != 2 {
		t.Fatalf("Files = %d, want 2", len(out.Files))
	}
	if out.Count != 3 {
		t.Errorf("Count = %d, want 3", out.Count)
	}
	if got := out.Files[0].Pools.Functions[0].Name; got != "add" {
		t.Errorf("first function = %q, want add", got)
	}
	if got := out.Files[1].Pools.Projects[0].Name; got != "calc" {
		t.Errorf("project = %q, want calc", got)
	}
}

func TestExtract_Errors(t *testing.T) {
	bad := writeSources(t, "bad.c", "/*\n * @docgen: widget\n */\n")

	tests := []struct {
		name  string
		paths []string
		code  errors.ErrorCode
	}{
		{"no paths", nil, errors.ErrConfig},
		{"missing file", []string{filepath.Join(t.TempDir(), "gone.c")}, errors.ErrNotFound},
		{"unknown category", bad, errors.ErrGrammar},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Extract(context.Background(), nil, ExtractInput{Paths: tc.paths})
			if !errors.Is(err, tc.code) {
				t.Fatalf("expected %s, got: %v", tc.code, err)
			}
		})
	}

	_, err := Extract(context.Background(), nil, ExtractInput{Paths: bad})
	dErr, _ := errors.As(err)
	if dErr.Details["file"] != bad[0] {
		t.Errorf("file detail = %v, want %s", dErr.Details["file"], bad[0])
	}
	if dErr.Line != 2 {
		t.Errorf("Line = %d, want 2", dErr.Line)
	}
}

func TestExtract_Cancelled(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract(ctx, nil, ExtractInput{Paths: paths})
	if !errors.Is(err, errors.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got: %v", err)
	}
}

func TestCompile(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource, "project.c", projectSource)

	out, err := Compile(context.Background(), nil, CompileInput{Paths: paths})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if out.Groups != 3 {
		t.Errorf("Groups = %d, want 3", out.Groups)
	}
	if !strings.HasPrefix(out.Text, "START_GROUP calc project\n") {
		t.Errorf("Text should start with the project group, got:\n%s", out.Text)
	}
}

func TestCompile_RequireProject(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource)
	cfg := config.DefaultConfig()
	cfg.RequireProject = true

	_, err := Compile(context.Background(), cfg, CompileInput{Paths: paths})
	if !errors.Is(err, errors.ErrConfig) {
		t.Fatalf("expected ErrConfig, got: %v", err)
	}
}

func TestCheck(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource, "project.c", projectSource)

	out, err := Check(context.Background(), nil, CheckInput{Paths: paths, Format: config.FormatMarkdown})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if out.Records != 3 || out.Pages != 3 {
		t.Errorf("Records, Pages = %d, %d, want 3, 3", out.Records, out.Pages)
	}
	want := []string{"calc.md", "add.md", "CALC_MAX.md"}
	if strings.Join(out.Files, ",") != strings.Join(want, ",") {
		t.Errorf("Files = %v, want %v", out.Files, want)
	}

	add := out.Documents[1]
	if add.Name != "add" || len(add.Sections) == 0 || add.Sections[0] != "NAME" {
		t.Errorf("add document = %+v, want sections starting with NAME", add)
	}
	if !strings.Contains(strings.Join(add.Sections, ","), "SYNOPSIS") {
		t.Errorf("add sections = %v, want SYNOPSIS", add.Sections)
	}
}

func TestCheck_UnresolvedEmbed(t *testing.T) {
	paths := writeSources(t, "project.c", projectSource)

	_, err := Check(context.Background(), nil, CheckInput{Paths: paths})
	if !errors.Is(err, errors.ErrReference) {
		t.Fatalf("expected ErrReference, got: %v", err)
	}
	// Reported at the @embed line.
	if line := errors.LineOf(err); line != 5 {
		t.Errorf("LineOf = %d, want 5", line)
	}
}

func TestGenerate(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource, "project.c", projectSource)
	outDir := t.TempDir()

	out, err := Generate(context.Background(), nil, GenerateInput{Paths: paths, OutputDir: outDir})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(out.Files) != 3 {
		t.Fatalf("Files = %v, want 3 entries", out.Files)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "add.3"))
	if err != nil {
		t.Fatalf("reading add.3: %v", err)
	}
	if !strings.HasPrefix(string(data), ".TH ADD 3\n") {
		t.Errorf("add.3 should start with .TH, got:\n%s", data)
	}

	calc, err := os.ReadFile(filepath.Join(outDir, "calc.3"))
	if err != nil {
		t.Fatalf("reading calc.3: %v", err)
	}
	if !strings.Contains(string(calc), "int add(int a, int b);") {
		t.Errorf("calc.3 should embed the add signature, got:\n%s", calc)
	}

	entries, _ := os.ReadDir(outDir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestGenerate_NothingWrittenOnFailure(t *testing.T) {
	broken := `/*
 * @docgen: function
 * @name: sub
 * @brief: subtracts
 * @description
 * @\T
 * @description
 */
`
	paths := writeSources(t, "calc.c", librarySource, "broken.c", broken)
	outDir := t.TempDir()

	if _, err := Generate(context.Background(), nil, GenerateInput{Paths: paths, OutputDir: outDir}); err == nil {
		t.Fatal("expected error for unclosed table")
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Errorf("output dir should stay empty, has %d entries", len(entries))
	}
}

func TestGenerate_MissingOutputDir(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource)

	_, err := Generate(context.Background(), nil, GenerateInput{
		Paths:     paths,
		OutputDir: filepath.Join(t.TempDir(), "missing"),
	})
	if !errors.Is(err, errors.ErrConfig) {
		t.Fatalf("expected ErrConfig, got: %v", err)
	}
}

func TestGenerate_OverwritesExisting(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource)
	outDir := t.TempDir()
	target := filepath.Join(outDir, "add.3")
	if err := os.WriteFile(target, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Generate(context.Background(), nil, GenerateInput{Paths: paths, OutputDir: outDir}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) == "stale" {
		t.Error("add.3 was not replaced")
	}
}

func TestIndexAndLookup(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	lib := writeSources(t, "calc.c", librarySource)
	out, err := Index(context.Background(), database, nil, IndexInput{Paths: lib})
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if out.Symbols != 2 {
		t.Errorf("Symbols = %d, want 2", out.Symbols)
	}
	if len(out.RunID) != 26 {
		t.Errorf("RunID = %q, want a 26-character ULID", out.RunID)
	}

	got, err := Lookup(database, LookupInput{Name: "add"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Symbol.File != lib[0] || got.Symbol.Line != 4 {
		t.Errorf("Symbol at %s:%d, want %s:4", got.Symbol.File, got.Symbol.Line, lib[0])
	}

	// Reindexing the same file replaces its rows.
	again, err := Index(context.Background(), database, nil, IndexInput{Paths: lib})
	if err != nil {
		t.Fatalf("second Index failed: %v", err)
	}
	if again.Removed != 2 {
		t.Errorf("Removed = %d, want 2", again.Removed)
	}

	list, err := Lookup(database, LookupInput{Limit: 1})
	if err != nil {
		t.Fatalf("Lookup list failed: %v", err)
	}
	if len(list.Symbols) != 1 || list.Pagination.Total != 2 || !list.Pagination.HasMore {
		t.Errorf("list = %d symbols, pagination %+v", len(list.Symbols), list.Pagination)
	}

	// Embeds in other files resolve through the index.
	project := writeSources(t, "project.c", projectSource)
	outDir := t.TempDir()
	if _, err := Generate(context.Background(), nil, GenerateInput{
		Paths:     project,
		OutputDir: outDir,
		Extra:     db.Index{DB: database},
	}); err != nil {
		t.Fatalf("Generate with index failed: %v", err)
	}
}

func TestLookup_Errors(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	if _, err := Lookup(database, LookupInput{Name: "nope"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if _, err := Lookup(database, LookupInput{Kind: "widget"}); !errors.Is(err, errors.ErrConfig) {
		t.Errorf("expected ErrConfig, got: %v", err)
	}

	out, err := Lookup(database, LookupInput{Limit: 1000})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if out.Pagination.Limit != MaxLookupLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, MaxLookupLimit)
	}
	if out.Symbols == nil {
		t.Error("Symbols should be an empty slice, not nil")
	}
}

func TestRender(t *testing.T) {
	paths := writeSources(t, "calc.c", librarySource)

	out, err := Render(context.Background(), nil, RenderInput{Paths: paths, Format: config.FormatMarkdown})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if len(out.Pages) != 2 {
		t.Fatalf("Pages = %d, want 2", len(out.Pages))
	}
	if out.Pages[0].Name != "add" || !strings.HasPrefix(out.Pages[0].Content, "# add(3)\n") {
		t.Errorf("first page = %s:\n%s", out.Pages[0].Name, out.Pages[0].Content)
	}
}
