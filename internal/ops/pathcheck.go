package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/docgen/internal/errors"
)

// ValidateOutputDir checks that dir exists, is a directory and is not a
// symlink. Output directories are never created.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return errors.NewConfig(0, "output directory is required")
	}
	info, err := os.Lstat(dir)
	if os.IsNotExist(err) {
		return errors.NewConfig(0, "output directory %s does not exist", dir)
	}
	if err != nil {
		return errors.NewConfig(0, "output directory %s: %v", dir, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return errors.NewConfig(0, "output directory %s must not be a symlink", dir)
	}
	if !info.IsDir() {
		return errors.NewConfig(0, "output path %s is not a directory", dir)
	}
	return nil
}

// ValidateOutputName checks that a generated file name stays directly inside
// the output directory.
func ValidateOutputName(name string) error {
	if name == "" || containsTraversal(name) || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return errors.NewConfig(0, "generated file name %q is not a plain file name", name)
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return errors.NewConfig(0, "generated file name %q contains control characters", name)
		}
	}
	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
