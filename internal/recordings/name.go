package recordings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ishe/internal/export"
	"ishe/internal/services"
)

var (
	// ErrInvalidName marks a name that is not a plain recording file name.
	ErrInvalidName = fmt.Errorf("%w: invalid recording name", services.ErrValidation)
	// ErrNotFound marks a name with no stored recording.
	ErrNotFound = fmt.Errorf("recording %w", services.ErrNotFound)
)

// ValidateName accepts only a bare file name ending in .csv: no separators,
// no parent or hidden components, no drive or volume prefix.
func ValidateName(name string) error {
	reason := nameProblem(name)
	if reason == "" {
		return nil
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidName, name, reason)
}

func nameProblem(name string) string {
	switch {
	case name == "":
		return "empty"
	case strings.ContainsAny(name, `/\`):
		return "contains a path separator"
	case strings.ContainsRune(name, 0):
		return "contains a NUL byte"
	case strings.Contains(name, ".."):
		return "contains a parent reference"
	case strings.HasPrefix(name, "."):
		return "hidden names are reserved"
	case filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return "absolute path"
	case !strings.HasSuffix(name, export.Extension):
		return "must end in " + export.Extension
	}
	return ""
}

// resolve maps a validated name to its path and confirms the result is a
// direct child of root.
func resolve(root, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	cleanRoot := filepath.Clean(root)
	target := filepath.Join(cleanRoot, name)
	if filepath.Dir(target) != cleanRoot {
		return "", fmt.Errorf("%w %q: escapes recordings directory", ErrInvalidName, name)
	}
	return target, nil
}

// IsInvalidName reports whether err came from name validation.
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}
