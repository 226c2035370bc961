package vault

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Note is an immutable snapshot of one note file. Path and Name never
// carry the extension; FileType records it ("txt" or "md").
type Note struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	FileType   string    `json:"file_type"`
}

// noteFromFile builds a Note snapshot from a file inside the root.
// Content is read best-effort when includeContent is set: a read failure
// degrades to empty content rather than failing the snapshot.
func (v *Vault) noteFromFile(abs string, includeContent bool) (*Note, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(abs))
	rel := v.relOf(abs)

	note := &Note{
		Path:       strings.TrimSuffix(rel, ext),
		Name:       strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		CreatedAt:  createTime(info),
		ModifiedAt: info.ModTime(),
		Size:       info.Size(),
		FileType:   strings.TrimPrefix(ext, "."),
	}

	if includeContent {
		if data, err := os.ReadFile(abs); err == nil {
			note.Content = string(data)
		}
	}
	return note, nil
}

// isSupportedExt reports whether ext (lowercase, with dot) is a note
// extension.
func isSupportedExt(ext string) bool {
	for _, e := range supportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
