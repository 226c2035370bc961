package server

import (
	"net/http"

	"github.com/quillvault/quill/internal/errors"
	"github.com/quillvault/quill/internal/vault"
)

func (h *Handlers) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	var (
		notes []vault.Note
		err   error
	)
	if r.URL.Query().Has("folder") {
		notes, err = h.vault.ListNotes(r.URL.Query().Get("folder"))
	} else {
		notes, err = h.vault.ListAllNotes()
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": notes,
		"count": len(notes),
	})
}

func (h *Handlers) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Folder   string `json:"folder"`
		Content  string `json:"content"`
		FileType string `json:"file_type"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, errors.NewInvalidRequest("note name is required"))
		return
	}
	if req.FileType == "" {
		req.FileType = "txt"
	}

	note, err := h.vault.CreateNote(req.Folder, req.Name, req.Content, req.FileType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *Handlers) HandleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.vault.GetNote(r.PathValue("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handlers) HandleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content *string `json:"content"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Content == nil {
		writeError(w, errors.NewInvalidRequest("content is required"))
		return
	}

	note, err := h.vault.UpdateNote(r.PathValue("path"), *req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handlers) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.vault.DeleteNote(r.PathValue("path")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note deleted successfully",
	})
}

// HandleNoteAction dispatches PATCH /api/notes/{path}/rename and /move.
func (h *Handlers) HandleNoteAction(w http.ResponseWriter, r *http.Request) {
	notePath, action := splitAction(r.PathValue("path"))

	switch action {
	case "rename":
		var req struct {
			NewName string `json:"new_name"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.NewName == "" {
			writeError(w, errors.NewInvalidRequest("new_name is required"))
			return
		}
		note, err := h.vault.RenameNote(notePath, req.NewName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, note)

	case "move":
		var req struct {
			TargetFolder *string `json:"target_folder"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.TargetFolder == nil {
			writeError(w, errors.NewInvalidRequest("target_folder is required"))
			return
		}
		note, err := h.vault.MoveNote(notePath, *req.TargetFolder)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, note)

	default:
		writeError(w, errors.NewInvalidRequest("unknown note action: "+action))
	}
}
