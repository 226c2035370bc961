package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quillvault/quill/internal/errors"
)

// findNote resolves an extension-less note path to the absolute location
// of the backing file, trying each supported extension in order. A path
// that already carries a supported extension is used as-is.
func (v *Vault) findNote(notePath string) (string, error) {
	if ext := strings.ToLower(path.Ext(notePath)); isSupportedExt(ext) {
		abs, err := v.Resolve(notePath)
		if err != nil {
			return "", err
		}
		if isRegularFile(abs) {
			return abs, nil
		}
		// A stored name may itself end in ".md" or ".txt" (the extension
		// is appended on top of it), so fall through to the append loop.
	}

	for _, ext := range supportedExtensions {
		abs, err := v.Resolve(notePath + ext)
		if err != nil {
			return "", err
		}
		if isRegularFile(abs) {
			return abs, nil
		}
	}
	return "", errors.NewNotFound("note", notePath)
}

// noteNameTaken reports whether any supported extension of name exists
// in dir, excluding self (the file being renamed).
func noteNameTaken(dir, name, self string) bool {
	for _, ext := range supportedExtensions {
		candidate := filepath.Join(dir, name+ext)
		if candidate == self {
			continue
		}
		if isRegularFile(candidate) {
			return true
		}
	}
	return false
}

// GetNote returns a note with its content.
func (v *Vault) GetNote(notePath string) (*Note, error) {
	abs, err := v.findNote(notePath)
	if err != nil {
		return nil, err
	}
	note, err := v.noteFromFile(abs, true)
	if err != nil {
		return nil, errors.NewNotFound("note", notePath)
	}
	return note, nil
}

// CreateNote creates a new note in folderPath. The name is sanitized;
// collisions are checked per-name across all supported extensions, so a
// "plan.md" blocks the creation of a "plan.txt" beside it.
func (v *Vault) CreateNote(folderPath, name, content, fileType string) (*Note, error) {
	if fileType != "txt" && fileType != "md" {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid file type: %s", fileType))
	}

	name = SanitizeName(name)
	if name == "" {
		return nil, errors.NewInvalidPath("invalid note name")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	rel := path.Join(folderPath, name)
	for _, ext := range supportedExtensions {
		abs, err := v.Resolve(rel + ext)
		if err != nil {
			return nil, err
		}
		if isRegularFile(abs) {
			return nil, errors.NewAlreadyExists("note", rel)
		}
	}

	abs, err := v.Resolve(rel + "." + fileType)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, errors.NewInternal(err)
	}

	// O_EXCL makes the final primitive report a lost race atomically
	// instead of overwriting.
	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.NewAlreadyExists("note", rel)
		}
		return nil, errors.NewInternal(err)
	}
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil {
		return nil, errors.NewInternal(werr)
	}
	if cerr != nil {
		return nil, errors.NewInternal(cerr)
	}

	return v.noteFromFile(abs, true)
}

// UpdateNote overwrites the content of an existing note.
func (v *Vault) UpdateNote(notePath, content string) (*Note, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	abs, err := v.findNote(notePath)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return nil, errors.NewInternal(err)
	}
	return v.noteFromFile(abs, true)
}

// DeleteNote removes a note file.
func (v *Vault) DeleteNote(notePath string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	abs, err := v.findNote(notePath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// RenameNote renames a note within its current folder, keeping the
// original extension.
func (v *Vault) RenameNote(notePath, newName string) (*Note, error) {
	newName = SanitizeName(newName)
	if newName == "" {
		return nil, errors.NewInvalidPath("invalid note name")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	abs, err := v.findNote(notePath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(abs)
	newAbs := filepath.Join(dir, newName+filepath.Ext(abs))
	if newAbs == abs {
		return v.noteFromFile(abs, true)
	}
	if noteNameTaken(dir, newName, abs) || isRegularFile(newAbs) {
		return nil, errors.NewAlreadyExists("note", v.relOf(newAbs))
	}

	// The destination is derived, not caller-validated; re-check it.
	if _, err := v.Resolve(v.relOf(newAbs)); err != nil {
		return nil, err
	}

	if err := os.Rename(abs, newAbs); err != nil {
		return nil, errors.NewInternal(err)
	}
	return v.noteFromFile(newAbs, true)
}

// MoveNote moves a note into targetFolder, keeping its file name.
func (v *Vault) MoveNote(notePath, targetFolder string) (*Note, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	abs, err := v.findNote(notePath)
	if err != nil {
		return nil, err
	}

	targetAbs, err := v.Resolve(targetFolder)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(targetAbs)
	if err != nil {
		return nil, errors.NewNotFound("target folder", targetFolder)
	}
	if !info.IsDir() {
		return nil, errors.NewInvalidPath(fmt.Sprintf("target path is not a folder: %s", targetFolder))
	}

	base := filepath.Base(abs)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if noteNameTaken(targetAbs, name, abs) {
		return nil, errors.NewAlreadyExists("note", path.Join(targetFolder, name))
	}

	newAbs := filepath.Join(targetAbs, base)
	if newAbs == abs {
		return v.noteFromFile(abs, true)
	}
	if _, err := v.Resolve(v.relOf(newAbs)); err != nil {
		return nil, err
	}

	if err := os.Rename(abs, newAbs); err != nil {
		return nil, errors.NewInternal(err)
	}
	return v.noteFromFile(newAbs, true)
}

// ListNotes returns metadata (no content) for every note directly inside
// folderPath, newest modification first.
func (v *Vault) ListNotes(folderPath string) ([]Note, error) {
	abs, err := v.Resolve(folderPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.NewNotFound("folder", folderPath)
	}
	if !info.IsDir() {
		return nil, errors.NewInvalidPath(fmt.Sprintf("path is not a folder: %s", folderPath))
	}

	notes := v.readNotesIn(abs)
	return notes, nil
}

// ListAllNotes returns metadata for every note under the root,
// recursively, newest modification first. Unreadable entries are
// skipped; partial results beat total failure for an aggregate view.
func (v *Vault) ListAllNotes() ([]Note, error) {
	notes := []Note{}
	_ = filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !isSupportedExt(strings.ToLower(filepath.Ext(p))) {
			return nil
		}
		if note, err := v.noteFromFile(p, false); err == nil {
			notes = append(notes, *note)
		}
		return nil
	})
	sortNotesByModified(notes)
	return notes, nil
}

// readNotesIn collects note metadata directly inside an absolute
// directory, skipping entries that cannot be read.
func (v *Vault) readNotesIn(abs string) []Note {
	notes := []Note{}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return notes
	}
	for _, entry := range entries {
		if entry.IsDir() || !isSupportedExt(strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		note, err := v.noteFromFile(filepath.Join(abs, entry.Name()), false)
		if err != nil {
			continue
		}
		notes = append(notes, *note)
	}
	sortNotesByModified(notes)
	return notes
}

func sortNotesByModified(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].ModifiedAt.Equal(notes[j].ModifiedAt) {
			return notes[i].Name < notes[j].Name
		}
		return notes[i].ModifiedAt.After(notes[j].ModifiedAt)
	})
}

func isRegularFile(abs string) bool {
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}
