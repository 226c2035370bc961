// Package vault implements the sandboxed hierarchical note store: a tree
// of folders backed 1:1 by directories on disk, with notes stored as
// plain .txt or .md files. Every caller-supplied path is validated and
// resolved against a fixed root; no operation can escape it.
package vault

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/quillvault/quill/internal/errors"
)

// supportedExtensions lists the note file extensions, in resolution
// order. Name collisions are checked across all of them.
var supportedExtensions = []string{".txt", ".md"}

// Vault is the sandboxed store rooted at a single directory.
//
// Mutating operations are serialized by a mutex so that check-then-act
// sequences (name not taken, then create) uphold the uniqueness
// invariants. Reads take no lock: a tree or listing is a non-locking
// snapshot and may observe concurrent modifications.
type Vault struct {
	root string

	mu sync.Mutex
}

// Open creates the root directory if missing and returns a Vault rooted
// at its canonical (symlink-resolved) location.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.NewInternal(err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &Vault{root: resolved}, nil
}

// Root returns the absolute sandbox root.
func (v *Vault) Root() string {
	return v.root
}

// SupportedExtensions returns the note extensions the store accepts.
func SupportedExtensions() []string {
	exts := make([]string, len(supportedExtensions))
	copy(exts, supportedExtensions)
	return exts
}

// NoteExists reports whether a note (any supported extension) exists at
// the given extension-less relative path.
func (v *Vault) NoteExists(notePath string) bool {
	_, err := v.findNote(notePath)
	return err == nil
}

// FolderExists reports whether a directory exists at the given relative
// path.
func (v *Vault) FolderExists(folderPath string) bool {
	abs, err := v.Resolve(folderPath)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.IsDir()
}
