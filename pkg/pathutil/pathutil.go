// Package pathutil provides utilities for safe path handling and validation.
package pathutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePath validates that a path is safe to use for file operations. It
// rejects directory traversal attempts and returns the cleaned absolute path.
func ValidatePath(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("path contains directory traversal pattern: %s", path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}

	return absPath, nil
}

// JoinAndValidate joins path components onto a base directory and verifies
// the result stays inside the base.
func JoinAndValidate(base string, parts ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("getting absolute base path: %w", err)
	}

	for _, part := range parts {
		if strings.Contains(part, "..") {
			return "", fmt.Errorf("path component contains directory traversal pattern: %s", part)
		}
	}

	joined := filepath.Join(append([]string{absBase}, parts...)...)

	prefix := absBase
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if joined != absBase && !strings.HasPrefix(joined, prefix) {
		return "", fmt.Errorf("path %s escapes base directory %s", joined, base)
	}

	return joined, nil
}

// SafeName reports whether a name is usable as a single directory component:
// non-empty, no separators, no traversal, not a dot name.
func SafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
