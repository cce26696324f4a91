package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	dgerrors "github.com/hpungsan/docgen/internal/errors"
)

// Output formats.
const (
	FormatManpage  = "manpage"
	FormatMarkdown = "markdown"
)

// legacyFormats are recognized format names whose layouts are not provided.
var legacyFormats = []string{"gml", "bookmaster"}

// Config holds application configuration.
type Config struct {
	// MaxLineLength is the longest raw source line accepted inside a comment.
	MaxLineLength int `json:"max_line_length"`

	// MaxTagNameLength bounds the identifier following the tag marker.
	MaxTagNameLength int `json:"max_tag_name_length"`

	// MaxArgumentLength bounds the argument of @param/@field/@embed tags.
	MaxArgumentLength int `json:"max_argument_length"`

	// MaxBlockLength bounds the accumulated body of a block tag.
	MaxBlockLength int `json:"max_block_length"`

	// CommentOpen and CommentClose delimit annotation comments.
	CommentOpen  string `json:"comment_open,omitempty"`
	CommentClose string `json:"comment_close,omitempty"`

	// Format is the output backend: "manpage" or "markdown".
	Format string `json:"format,omitempty"`

	// Section is the manual section used for troff output file names and headers.
	Section string `json:"section,omitempty"`

	// OutputDir is where generated documents are written. It must already exist.
	OutputDir string `json:"output_dir,omitempty"`

	// RequireProject makes a missing @docgen: project comment fatal.
	RequireProject bool `json:"require_project,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxLineLength:     512,
		MaxTagNameLength:  32,
		MaxArgumentLength: 64,
		MaxBlockLength:    16384,
		CommentOpen:       "/*",
		CommentClose:      "*/",
		Format:            FormatManpage,
		Section:           "3",
		OutputDir:         ".",
	}
}

// IsLegacyFormat reports whether format names a recognized but unsupported
// legacy layout.
func IsLegacyFormat(format string) bool {
	return slices.Contains(legacyFormats, format)
}

// Validate checks values that cannot be repaired by defaults.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatManpage, FormatMarkdown:
	default:
		if IsLegacyFormat(c.Format) {
			return dgerrors.NewConfig(0, "output format %q is not supported by this build", c.Format)
		}
		return dgerrors.NewConfig(0, "unknown output format %q (want manpage or markdown)", c.Format)
	}
	if c.CommentOpen == "" || c.CommentClose == "" {
		return dgerrors.NewConfig(0, "comment_open and comment_close must not be empty")
	}
	if c.MaxLineLength <= 0 || c.MaxTagNameLength <= 0 || c.MaxArgumentLength <= 0 || c.MaxBlockLength <= 0 {
		return dgerrors.NewConfig(0, "length limits must be positive")
	}
	if strings.ContainsAny(c.Section, " \t\n/") {
		return dgerrors.NewConfig(0, "invalid manual section %q", c.Section)
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.docgen.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.docgen) and repo (.docgen) directories.
// Repo config is found by walking upward from startDir to find the nearest .docgen/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .docgen/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".docgen", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, dgerrors.NewConfig(0, "%s: %v", configPath, err)
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		MaxLineLength:     firstInt(overlay.MaxLineLength, base.MaxLineLength),
		MaxTagNameLength:  firstInt(overlay.MaxTagNameLength, base.MaxTagNameLength),
		MaxArgumentLength: firstInt(overlay.MaxArgumentLength, base.MaxArgumentLength),
		MaxBlockLength:    firstInt(overlay.MaxBlockLength, base.MaxBlockLength),
		CommentOpen:       firstString(overlay.CommentOpen, base.CommentOpen),
		CommentClose:      firstString(overlay.CommentClose, base.CommentClose),
		Format:            firstString(overlay.Format, base.Format),
		Section:           firstString(overlay.Section, base.Section),
		OutputDir:         firstString(overlay.OutputDir, base.OutputDir),
	}

	// Booleans: overlay wins if true, else base
	result.RequireProject = base.RequireProject || overlay.RequireProject

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func firstString(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
