package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dgerrors "github.com/hpungsan/docgen/internal/errors"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"max_line_length": 80, "format": "markdown"}`), 0600))

	cfg, err := Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.MaxLineLength)
	assert.Equal(t, FormatMarkdown, cfg.Format)
	// Untouched values keep their defaults.
	assert.Equal(t, 32, cfg.MaxTagNameLength)
	assert.Equal(t, "/*", cfg.CommentOpen)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{not json}`), 0600))

	_, err := Load(tmpDir)
	require.Error(t, err)
	assert.True(t, dgerrors.Is(err, dgerrors.ErrConfig))
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	globalConfig := `{"section": "3x", "disabled_tools": ["docgen_lookup"]}`
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalConfig), 0600))

	docgenDir := filepath.Join(repoRoot, ".docgen")
	require.NoError(t, os.MkdirAll(docgenDir, 0755))
	repoConfig := `{"section": "7", "require_project": true, "disabled_tools": ["docgen_render", "docgen_lookup"]}`
	require.NoError(t, os.WriteFile(filepath.Join(docgenDir, "config.json"), []byte(repoConfig), 0600))

	// Start below the repo root to exercise the upward walk.
	nested := filepath.Join(repoRoot, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := LoadWithRepo(globalDir, nested)
	require.NoError(t, err)

	assert.Equal(t, "7", cfg.Section)
	assert.True(t, cfg.RequireProject)
	assert.Equal(t, []string{"docgen_lookup", "docgen_render"}, cfg.DisabledTools)
	assert.Equal(t, 512, cfg.MaxLineLength)
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	assert.Equal(t, "", FindRepoConfig(t.TempDir()))
}

func TestMerge_BooleanOverlayOnlyEnables(t *testing.T) {
	base := &Config{RequireProject: true}
	overlay := &Config{}
	assert.True(t, Merge(base, overlay).RequireProject)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"markdown", func(c *Config) { c.Format = FormatMarkdown }, false},
		{"legacy format", func(c *Config) { c.Format = "gml" }, true},
		{"unknown format", func(c *Config) { c.Format = "html" }, true},
		{"empty comment open", func(c *Config) { c.CommentOpen = "" }, true},
		{"zero limit", func(c *Config) { c.MaxBlockLength = -1 }, true},
		{"bad section", func(c *Config) { c.Section = "3 x" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dgerrors.Is(err, dgerrors.ErrConfig))
			} else {
				require.NoError(t, err)
			}
		})
	}
}
