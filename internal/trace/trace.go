// Package trace appends structured events to JSONL trace files. Writes are
// best-effort: a trace failure never surfaces to the caller.
package trace

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event is one line in a trace file.
type Event struct {
	ID     string         `json:"id"`
	TS     string         `json:"ts"`
	PID    int            `json:"pid"`
	Source string         `json:"source"`
	Event  string         `json:"event"`
	Data   map[string]any `json:"data,omitempty"`
}

// Logger appends events to a single trace file. A nil *Logger discards
// everything, so callers never need to branch on tracing being enabled.
type Logger struct {
	path   string
	source string
	mu     sync.Mutex
}

// New returns a logger writing to path, tagging every event with source.
func New(path, source string) *Logger {
	return &Logger{path: path, source: source}
}

// Write appends one event. Failures are swallowed.
func (l *Logger) Write(event string, data map[string]any) {
	if l == nil {
		return
	}

	now := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	e := Event{
		ID:     ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		TS:     now.Format(time.RFC3339Nano),
		PID:    os.Getpid(),
		Source: l.source,
		Event:  event,
		Data:   data,
	}

	line, err := json.Marshal(e)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.Write(append(line, '\n'))
}
