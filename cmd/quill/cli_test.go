package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/quillvault/quill/internal/config"
	"github.com/quillvault/quill/internal/vault"
)

// testConfig returns a config rooted in a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.NotesDir = filepath.Join(tmpDir, "notes")
	cfg.UploadsDir = filepath.Join(tmpDir, "uploads")
	cfg.TraceDir = filepath.Join(tmpDir, "traces")
	return cfg
}

// captureStdout runs fn and returns what it wrote to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout
	return buf.String(), err
}

func TestCLITree(t *testing.T) {
	cfg := testConfig(t)
	v, err := vault.Open(cfg.NotesDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.CreateFolder("", "ideas"); err != nil {
		t.Fatal(err)
	}

	app := newCLIApp(cfg)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"quill", "tree"})
	})
	if err != nil {
		t.Fatalf("tree command failed: %v", err)
	}

	var tree vault.Folder
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if tree.Name != "root" || len(tree.Children) != 1 {
		t.Errorf("tree = %+v", tree)
	}
}

func TestCLIList(t *testing.T) {
	cfg := testConfig(t)
	v, err := vault.Open(cfg.NotesDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.CreateNote("", "a", "", "txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := v.CreateNote("sub", "b", "", "md"); err != nil {
		t.Fatal(err)
	}

	app := newCLIApp(cfg)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"quill", "list"})
	})
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output struct {
		Notes []vault.Note `json:"notes"`
		Count int          `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.Count != 2 {
		t.Errorf("count = %d, want 2", output.Count)
	}
}

func TestCLIRm(t *testing.T) {
	cfg := testConfig(t)
	v, err := vault.Open(cfg.NotesDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.CreateNote("", "gone", "", "txt"); err != nil {
		t.Fatal(err)
	}

	app := newCLIApp(cfg)
	_, err = captureStdout(t, func() error {
		return app.Run([]string{"quill", "rm", "gone"})
	})
	if err != nil {
		t.Fatalf("rm command failed: %v", err)
	}
	if v.NoteExists("gone") {
		t.Error("note still exists after rm")
	}

	// Missing path argument is an error.
	err = app.Run([]string{"quill", "rm"})
	if err == nil {
		t.Error("rm without path should fail")
	}
}

func TestCLIProcess(t *testing.T) {
	cfg := testConfig(t)
	app := newCLIApp(cfg)

	oldStdin := os.Stdin
	stdinR, stdinW, _ := os.Pipe()
	os.Stdin = stdinR
	go func() {
		_, _ = stdinW.WriteString("- b\n- a")
		stdinW.Close()
	}()

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"quill", "process", "--operation=reorder-list"})
	})
	os.Stdin = oldStdin

	if err != nil {
		t.Fatalf("process command failed: %v", err)
	}
	var result struct {
		ProcessedText string `json:"processed_text"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if result.ProcessedText != "- a\n- b" {
		t.Errorf("processed_text = %q", result.ProcessedText)
	}
}
