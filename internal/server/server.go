// Package server exposes the note vault as a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/quillvault/quill/internal/config"
	"github.com/quillvault/quill/internal/textproc"
	"github.com/quillvault/quill/internal/trace"
	"github.com/quillvault/quill/internal/transcribe"
	"github.com/quillvault/quill/internal/vault"
)

const version = "1.0.0"

// Handlers holds the services behind the HTTP routes.
type Handlers struct {
	vault       *vault.Vault
	text        *textproc.Service
	modifier    SelectionModifier
	transcriber *transcribe.Service
	cfg         *config.Config
	tracer      *trace.Logger
	clientTrace *trace.Logger
	log         *slog.Logger
}

// NewServer wires routes and middleware into an http.Server. modifier may
// be nil, which leaves the selection-modification route unavailable.
func NewServer(v *vault.Vault, text *textproc.Service, modifier SelectionModifier, transcriber *transcribe.Service, cfg *config.Config, tracer, clientTrace *trace.Logger, log *slog.Logger) *http.Server {
	if log == nil {
		log = slog.Default()
	}
	h := &Handlers{
		vault:       v,
		text:        text,
		modifier:    modifier,
		transcriber: transcriber,
		cfg:         cfg,
		tracer:      tracer,
		clientTrace: clientTrace,
		log:         log,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("GET /api/health", h.HandleHealth)

	mux.HandleFunc("GET /api/notes", h.HandleListNotes)
	mux.HandleFunc("POST /api/notes", h.HandleCreateNote)
	mux.HandleFunc("GET /api/notes/{path...}", h.HandleGetNote)
	mux.HandleFunc("PUT /api/notes/{path...}", h.HandleUpdateNote)
	mux.HandleFunc("DELETE /api/notes/{path...}", h.HandleDeleteNote)
	mux.HandleFunc("PATCH /api/notes/{path...}", h.HandleNoteAction)

	mux.HandleFunc("GET /api/folders", h.HandleFolderTree)
	mux.HandleFunc("POST /api/folders", h.HandleCreateFolder)
	mux.HandleFunc("DELETE /api/folders/{path...}", h.HandleDeleteFolder)
	mux.HandleFunc("PATCH /api/folders/{path...}", h.HandleFolderAction)

	mux.HandleFunc("GET /api/render/{path...}", h.HandleRenderNote)

	mux.HandleFunc("POST /api/text/process", h.HandleProcessText)
	mux.HandleFunc("POST /api/text/modify-selection", h.HandleModifySelection)
	mux.HandleFunc("GET /api/text/operations", h.HandleListOperations)
	mux.HandleFunc("GET /api/text/operations/info", h.HandleOperationInfo)

	mux.HandleFunc("POST /api/transcription/audio", h.HandleTranscribeAudio)
	mux.HandleFunc("GET /api/transcription/formats", h.HandleTranscriptionFormats)

	mux.HandleFunc("POST /api/trace/client", h.HandleClientTrace)

	handler := securityHeaders(corsHeaders(cfg.AllowedOrigins, h.requestLog(mux)))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// corsHeaders answers preflight requests and marks allowed origins.
func corsHeaders(origins []string, next http.Handler) http.Handler {
	allowed := "*"
	if len(origins) > 0 {
		allowed = strings.Join(origins, ", ")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowed)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("serving", "addr", srv.Addr)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
