package server

import (
	"bytes"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/quillvault/quill/internal/errors"
)

// HandleRenderNote converts a note's markdown content to HTML.
func (h *Handlers) HandleRenderNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.vault.GetNote(r.PathValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(note.Content), &buf); err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"path": note.Path,
		"html": buf.String(),
	})
}
