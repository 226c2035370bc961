package vault

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/quillvault/quill/internal/errors"
)

// Folder is a recursive view of one directory: its notes (metadata only,
// newest first) and its subfolders (lexicographic, dot-prefixed ones
// excluded). It is recomputed per request, never cached or mutated.
type Folder struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Children []Folder `json:"children"`
	Notes    []Note   `json:"notes"`
}

// CreateFolder creates parentPath/name, including any missing
// intermediate directories, and returns the new relative path.
func (v *Vault) CreateFolder(parentPath, name string) (string, error) {
	name = SanitizeName(name)
	if name == "" {
		return "", errors.NewInvalidPath("invalid folder name")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	rel := path.Join(parentPath, name)
	abs, err := v.Resolve(rel)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err == nil {
		return "", errors.NewAlreadyExists("folder", rel)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", errors.NewInternal(err)
	}
	return rel, nil
}

// DeleteFolder removes a folder. Without recursive it fails NOT_EMPTY if
// the folder contains anything; with recursive it removes the folder and
// all contents. The root itself is undeletable.
func (v *Vault) DeleteFolder(folderPath string, recursive bool) error {
	if folderPath == "" {
		return errors.NewInvalidPath("cannot delete root folder")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	abs, err := v.resolveFolder(folderPath)
	if err != nil {
		return err
	}

	if recursive {
		if err := os.RemoveAll(abs); err != nil {
			return errors.NewInternal(err)
		}
		return nil
	}

	if err := os.Remove(abs); err != nil {
		if entries, rerr := os.ReadDir(abs); rerr == nil && len(entries) > 0 {
			return errors.NewNotEmpty(folderPath)
		}
		return errors.NewInternal(err)
	}
	return nil
}

// RenameFolder renames a folder in place within its current parent and
// returns the new relative path. The root cannot be renamed.
func (v *Vault) RenameFolder(folderPath, newName string) (string, error) {
	if folderPath == "" {
		return "", errors.NewInvalidPath("cannot rename root folder")
	}
	newName = SanitizeName(newName)
	if newName == "" {
		return "", errors.NewInvalidPath("invalid folder name")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	abs, err := v.resolveFolder(folderPath)
	if err != nil {
		return "", err
	}

	newAbs := filepath.Join(filepath.Dir(abs), newName)
	if newAbs == abs {
		return v.relOf(abs), nil
	}
	if _, err := os.Stat(newAbs); err == nil {
		return "", errors.NewAlreadyExists("folder", v.relOf(newAbs))
	}
	if _, err := v.Resolve(v.relOf(newAbs)); err != nil {
		return "", err
	}

	if err := os.Rename(abs, newAbs); err != nil {
		return "", errors.NewInternal(err)
	}
	return v.relOf(newAbs), nil
}

// MoveFolder moves a folder under targetFolder and returns the new
// relative path. A folder can never be moved into itself or into one of
// its own descendants.
func (v *Vault) MoveFolder(folderPath, targetFolder string) (string, error) {
	if folderPath == "" {
		return "", errors.NewInvalidPath("cannot move root folder")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	srcAbs, err := v.resolveFolder(folderPath)
	if err != nil {
		return "", err
	}

	dstAbs, err := v.Resolve(targetFolder)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dstAbs)
	if err != nil {
		return "", errors.NewNotFound("target folder", targetFolder)
	}
	if !info.IsDir() {
		return "", errors.NewInvalidPath(fmt.Sprintf("target path is not a folder: %s", targetFolder))
	}

	// Both sides are canonical here; a plain prefix test on segment
	// boundaries is the whole cycle check.
	if dstAbs == srcAbs {
		return "", errors.NewInvalidPath("cannot move folder into itself")
	}
	if strings.HasPrefix(dstAbs, srcAbs+string(filepath.Separator)) {
		return "", errors.NewInvalidPath("cannot move folder into its own descendant")
	}

	newAbs := filepath.Join(dstAbs, filepath.Base(srcAbs))
	if _, err := os.Stat(newAbs); err == nil {
		return "", errors.NewAlreadyExists("folder", v.relOf(newAbs))
	}
	if _, err := v.Resolve(v.relOf(newAbs)); err != nil {
		return "", err
	}

	if err := os.Rename(srcAbs, newAbs); err != nil {
		return "", errors.NewInternal(err)
	}
	return v.relOf(newAbs), nil
}

// Tree assembles the recursive folder view starting at folderPath. It is
// a pure read: no locks, no side effects. A concurrently modified folder
// may yield a torn (partial) listing.
func (v *Vault) Tree(folderPath string) (*Folder, error) {
	abs, err := v.resolveFolder(folderPath)
	if err != nil {
		return nil, err
	}
	return v.buildTree(abs), nil
}

// resolveFolder resolves a relative path that must name an existing
// directory.
func (v *Vault) resolveFolder(folderPath string) (string, error) {
	abs, err := v.Resolve(folderPath)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.NewNotFound("folder", folderPath)
	}
	if !info.IsDir() {
		return "", errors.NewInvalidPath(fmt.Sprintf("path is not a folder: %s", folderPath))
	}
	return abs, nil
}

func (v *Vault) buildTree(abs string) *Folder {
	name := filepath.Base(abs)
	if abs == v.root {
		name = "root"
	}

	folder := &Folder{
		Path:     v.relOf(abs),
		Name:     name,
		Children: []Folder{},
		Notes:    v.readNotesIn(abs),
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return folder
	}
	// os.ReadDir returns entries sorted by name.
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		child := v.buildTree(filepath.Join(abs, entry.Name()))
		folder.Children = append(folder.Children, *child)
	}
	return folder
}
