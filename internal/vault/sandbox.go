package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/quillvault/quill/internal/errors"
)

// Resolve validates a caller-supplied relative path and returns the
// canonical absolute location under the root. The empty string denotes
// the root itself. It fails with INVALID_PATH if the path contains a
// ".." segment, starts with a path separator, is absolute by host
// convention, or canonicalizes (through symlinks) to a location outside
// the root.
//
// Callers deriving a new path (a rename or move destination) must pass
// the derived path back through Resolve before touching it; a validated
// source does not make a computed destination trusted.
func (v *Vault) Resolve(rel string) (string, error) {
	if rel == "" {
		return v.root, nil
	}

	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "\\") || filepath.IsAbs(rel) {
		return "", errors.NewInvalidPath(fmt.Sprintf("path must be relative: %s", rel))
	}
	if containsTraversal(rel) {
		return "", errors.NewInvalidPath(fmt.Sprintf("path must not contain directory traversal (..): %s", rel))
	}

	abs := filepath.Join(v.root, filepath.FromSlash(rel))
	resolved, err := resolveExistingPrefix(abs)
	if err != nil {
		return "", errors.NewInvalidPath(fmt.Sprintf("cannot resolve path: %s", rel))
	}
	if resolved != v.root && !strings.HasPrefix(resolved, v.root+string(filepath.Separator)) {
		return "", errors.NewInvalidPath(fmt.Sprintf("path escapes the notes root: %s", rel))
	}
	return resolved, nil
}

// containsTraversal checks if the path contains a ".." segment, on
// either separator convention.
func containsTraversal(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if part == ".." {
			return true
		}
	}
	return false
}

// resolveExistingPrefix canonicalizes abs by resolving symlinks on its
// longest existing ancestor, then rejoining the non-existent remainder.
// This lets destinations that do not exist yet be validated.
func resolveExistingPrefix(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		return "", err
	}
	resolvedParent, err := resolveExistingPrefix(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}

// relOf converts an absolute location under the root back to the
// normalized forward-slash relative form. The root maps to "".
func (v *Vault) relOf(abs string) string {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// SanitizeName strips a single path segment of traversal and
// filesystem-hostile characters. The result never begins or ends with a
// dot or whitespace and contains no separators; it may be empty, which
// callers must reject.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)

	for _, c := range `/\:*?"<>|` {
		name = strings.ReplaceAll(name, string(c), "-")
	}
	name = strings.ReplaceAll(name, "\x00", "-")

	return strings.TrimFunc(name, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})
}
