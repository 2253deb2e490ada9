// Package textfs resolves workspace file paths and bounds text handed back to
// the model.
package textfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(raw string) string {
	if raw != "~" && !strings.HasPrefix(raw, "~/") {
		return raw
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return raw
	}
	return filepath.Join(home, strings.TrimPrefix(raw, "~"))
}

// JoinWorkspace returns raw unchanged if it is absolute and otherwise joins it
// onto the workspace root.
func JoinWorkspace(root, raw string) string {
	if filepath.IsAbs(raw) {
		return raw
	}
	return filepath.Join(root, raw)
}

// Canonicalize follows every symlink in p and returns the absolute result.
// It fails if p or any link target does not exist.
func Canonicalize(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("absolute path for %s: %w", resolved, err)
	}
	return abs, nil
}

// IsWithin reports whether p is root or lies below it. Both paths must be
// clean and absolute.
func IsWithin(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
