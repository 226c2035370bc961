package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quillvault/quill/internal/errors"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps taxonomy errors to their status; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.Error); ok {
		writeJSON(w, e.Status, map[string]any{
			"error": e.Message,
			"code":  e.Code,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error": "internal server error",
		"code":  errors.ErrInternal,
	})
}

// decodeBody unmarshals the request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewInvalidRequest("request body must be valid JSON")
	}
	return nil
}

// splitAction separates a trailing action segment ("rename" or "move") from
// a note or folder path captured by a wildcard route.
func splitAction(captured string) (path, action string) {
	captured = strings.TrimSuffix(captured, "/")
	if i := strings.LastIndex(captured, "/"); i >= 0 {
		return captured[:i], captured[i+1:]
	}
	return "", captured
}

func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "quill",
		"version": version,
		"endpoints": map[string]string{
			"notes":         "/api/notes",
			"folders":       "/api/folders",
			"text":          "/api/text",
			"transcription": "/api/transcription",
			"health":        "/api/health",
		},
	})
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "note API is running",
	})
}
