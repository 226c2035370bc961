package server

import (
	"net/http"
)

// HandleClientTrace ingests trace events reported by the frontend.
func (h *Handlers) HandleClientTrace(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Event == "" {
		payload.Event = "client.event"
	}

	h.clientTrace.Write(payload.Event, payload.Data)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
