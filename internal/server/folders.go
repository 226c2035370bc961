package server

import (
	"net/http"
	"path"

	"github.com/quillvault/quill/internal/errors"
)

func (h *Handlers) HandleFolderTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.vault.Tree(r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *Handlers) HandleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Parent string `json:"parent"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, errors.NewInvalidRequest("folder name is required"))
		return
	}

	created, err := h.vault.CreateFolder(req.Parent, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"path":    created,
		"name":    path.Base(created),
		"message": "Folder created successfully",
	})
}

func (h *Handlers) HandleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderPath := r.PathValue("path")
	recursive := r.URL.Query().Get("recursive") == "true"

	if err := h.vault.DeleteFolder(folderPath, recursive); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":    folderPath,
		"message": "Folder deleted successfully",
	})
}

// HandleFolderAction dispatches PATCH /api/folders/{path}/rename and /move.
func (h *Handlers) HandleFolderAction(w http.ResponseWriter, r *http.Request) {
	folderPath, action := splitAction(r.PathValue("path"))

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
		newPath, err := h.vault.RenameFolder(folderPath, req.NewName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"old_path": folderPath,
			"new_path": newPath,
			"name":     path.Base(newPath),
			"message":  "Folder renamed successfully",
		})

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
		newPath, err := h.vault.MoveFolder(folderPath, *req.TargetFolder)
		if err != nil {
			writeError(w, err)
			return
		}
		name := "root"
		if newPath != "" {
			name = path.Base(newPath)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"old_path": folderPath,
			"new_path": newPath,
			"name":     name,
			"message":  "Folder moved successfully",
		})

	default:
		writeError(w, errors.NewInvalidRequest("unknown folder action: "+action))
	}
}
