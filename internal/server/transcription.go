package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/quillvault/quill/internal/errors"
	"github.com/quillvault/quill/internal/transcribe"
)

func (h *Handlers) HandleTranscribeAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxAudioSizeBytes()+1<<20)

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, errors.NewInvalidRequest("no audio file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, errors.NewInvalidRequest("no file selected"))
		return
	}
	if !transcribe.IsSupportedFormat(header.Filename) {
		writeError(w, errors.NewInvalidRequest("unsupported audio format"))
		return
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0o755); err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	tempPath := filepath.Join(h.cfg.UploadsDir, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(tempPath)
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	defer os.Remove(tempPath)

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeError(w, errors.NewInternal(err))
		return
	}
	dst.Close()

	result, err := h.transcriber.Transcribe(r.Context(), tempPath)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"text":     result.Text,
		"language": result.Language,
		"duration": result.Duration,
		"message":  "Transcription successful",
	})
}

func (h *Handlers) HandleTranscriptionFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formats":     transcribe.SupportedFormats(),
		"max_size_mb": h.cfg.MaxAudioSizeMB,
	})
}
