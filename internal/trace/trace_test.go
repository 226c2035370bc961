package trace

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWrite_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "events.jsonl")
	l := New(path, "backend")

	l.Write("note.create", map[string]any{"path": "a/b"})
	l.Write("note.delete", nil)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace file: %v", err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		events = append(events, e)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.Event != "note.create" {
		t.Errorf("event = %q, want note.create", first.Event)
	}
	if first.Source != "backend" {
		t.Errorf("source = %q, want backend", first.Source)
	}
	if first.ID == "" || first.TS == "" {
		t.Errorf("missing id/ts: %+v", first)
	}
	if first.PID != os.Getpid() {
		t.Errorf("pid = %d, want %d", first.PID, os.Getpid())
	}
	if first.Data["path"] != "a/b" {
		t.Errorf("data = %v, want path a/b", first.Data)
	}
	if events[0].ID == events[1].ID {
		t.Error("event ids must be unique")
	}
}

func TestWrite_NilLoggerIsNoOp(t *testing.T) {
	var l *Logger
	l.Write("anything", map[string]any{"x": 1})
}

func TestWrite_SwallowsFailures(t *testing.T) {
	// Path under a regular file cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	l := New(filepath.Join(blocker, "events.jsonl"), "backend")
	l.Write("event", nil)
}

func TestWrite_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := New(path, "backend")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Write("tick", nil)
		}()
	}
	wg.Wait()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace file: %v", err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("torn line: %v", err)
		}
		n++
	}
	if n != 20 {
		t.Errorf("got %d lines, want 20", n)
	}
}
