// Package security validates user supplied file paths before planify reads
// or writes them.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrForbiddenPath is returned for paths that cannot be used safely.
var ErrForbiddenPath = errors.New("forbidden file path")

// dangerousChars contains shell metacharacters that never appear in a path
// we accept.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks when
// the file exists. Paths with shell metacharacters are rejected.
func ValidateFilePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrForbiddenPath)
	}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("%w: %q contains %q", ErrForbiddenPath, path, char)
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolvedPath, nil
}

// SafeOpen opens a file for reading after validating the path.
func SafeOpen(path string) (*os.File, error) {
	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.Open(cleanPath)
}

// SafeWriteFile writes data owner-only after validating the path. The parent
// directory must already exist and the target must not be a directory.
func SafeWriteFile(path string, data []byte) error {
	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(cleanPath))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForbiddenPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrForbiddenPath, filepath.Dir(cleanPath))
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrForbiddenPath, cleanPath)
	}
	return os.WriteFile(cleanPath, data, 0o600)
}
