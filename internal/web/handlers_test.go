package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/ops"
)

const calcSource = `/*
 * @docgen: project
 * @name: calc
 * @brief: tiny calculator library
 * @description
 * @\T
 * @\S ;
 * @Symbol;Meaning
 * @+;addition
 * @\T
 * @description
 */

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
`

func setupTest(t *testing.T, sources ...string) *Handlers {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	var paths []string
	for i, src := range sources {
		path := filepath.Join(tmpDir, "src"+string(rune('a'+i))+".c")
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}

	return &Handlers{
		db:       database,
		cfg:      config.DefaultConfig(),
		paths:    paths,
		renderer: NewRenderer(templateSub, "test"),
	}
}

func TestHandleIndex(t *testing.T) {
	h := setupTest(t, calcSource)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	h.HandleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`href="/docs/calc"`, `href="/docs/add"`, "add.md"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in response", want)
		}
	}
}

func TestHandleDocument(t *testing.T) {
	h := setupTest(t, calcSource)

	req := httptest.NewRequest("GET", "/docs/calc", nil)
	req.SetPathValue("name", "calc")
	rec := httptest.NewRecorder()
	h.HandleDocument(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<h2 id="description">DESCRIPTION</h2>`) {
		t.Error("expected rendered DESCRIPTION heading")
	}
	if !strings.Contains(body, `href="#description"`) {
		t.Error("expected a contents link to DESCRIPTION")
	}
	if !strings.Contains(body, "<th>Symbol</th>") {
		t.Error("expected the description table rendered as HTML")
	}
}

func TestHandleDocument_NotFound(t *testing.T) {
	h := setupTest(t, calcSource)

	req := httptest.NewRequest("GET", "/docs/sub", nil)
	req.SetPathValue("name", "sub")
	rec := httptest.NewRecorder()
	h.HandleDocument(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleIndex_SourceError(t *testing.T) {
	h := setupTest(t, "/*\n * @docgen: widget\n */\n")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleIndex(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
			Line int    `json:"line"`
			File string `json:"file"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "GRAMMAR" || payload.Error.Line != 2 || payload.Error.File != h.paths[0] {
		t.Errorf("error = %+v", payload.Error)
	}
}

func TestHandleSymbols(t *testing.T) {
	h := setupTest(t, calcSource)
	if _, err := ops.Index(context.Background(), h.db, h.cfg, ops.IndexInput{Paths: h.paths}); err != nil {
		t.Fatalf("index: %v", err)
	}

	req := httptest.NewRequest("GET", "/symbols?prefix=ad", nil)
	rec := httptest.NewRecorder()
	h.HandleSymbols(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<code>add</code>") {
		t.Error("expected symbol add in response")
	}
	if !strings.Contains(body, "1 symbols") {
		t.Error("expected total count in response")
	}
}

func TestHandleSymbols_NoIndex(t *testing.T) {
	h := setupTest(t, calcSource)
	h.db = nil

	req := httptest.NewRequest("GET", "/symbols", nil)
	rec := httptest.NewRecorder()
	h.HandleSymbols(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRoutes(t *testing.T) {
	h := setupTest(t, calcSource)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(securityHeaders(h.routes(staticSub)))
	defer srv.Close()

	for path, want := range map[string]int{
		"/":                 http.StatusOK,
		"/docs/add":         http.StatusOK,
		"/static/style.css": http.StatusOK,
		"/nope":             http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
		if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("GET %s missing security headers", path)
		}
	}
}
