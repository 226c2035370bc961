package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quillvault/quill/internal/config"
	"github.com/quillvault/quill/internal/textproc"
	"github.com/quillvault/quill/internal/vault"
)

// testSetup creates a temporary vault and handlers for testing.
func testSetup(t *testing.T) *Handlers {
	t.Helper()

	v, err := vault.Open(filepath.Join(t.TempDir(), "notes"))
	if err != nil {
		t.Fatalf("failed to open vault: %v", err)
	}

	cfg := config.DefaultConfig()
	return NewHandlers(v, textproc.NewService(nil), cfg)
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultJSON unmarshals the first text content of a result.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is not text: %T", result.Content[0])
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(text.Text), &m); err != nil {
		t.Fatalf("result is not JSON: %v (%s)", err, text.Text)
	}
	return m
}

// assertErrorCode checks that an error result carries the expected code.
func assertErrorCode(t *testing.T, result *mcp.CallToolResult, code string) {
	t.Helper()
	if !result.IsError {
		t.Fatalf("expected error result, got success")
	}
	m := resultJSON(t, result)
	errObj, _ := m["error"].(map[string]any)
	if errObj["code"] != code {
		t.Errorf("error code = %v, want %s", errObj["code"], code)
	}
}

func TestNoteToolLifecycle(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	result, err := h.HandleNoteCreate(ctx, makeRequest(map[string]any{
		"name": "daily", "folder": "journal", "content": "entry one", "file_type": "md",
	}))
	if err != nil {
		t.Fatalf("HandleNoteCreate: %v", err)
	}
	if result.IsError {
		t.Fatalf("create failed: %v", resultJSON(t, result))
	}
	note := resultJSON(t, result)
	if note["path"] != "journal/daily" {
		t.Errorf("path = %v", note["path"])
	}

	result, _ = h.HandleNoteGet(ctx, makeRequest(map[string]any{"path": "journal/daily"}))
	if result.IsError {
		t.Fatalf("get failed: %v", resultJSON(t, result))
	}
	if m := resultJSON(t, result); m["content"] != "entry one" {
		t.Errorf("content = %v", m["content"])
	}

	result, _ = h.HandleNoteUpdate(ctx, makeRequest(map[string]any{
		"path": "journal/daily", "content": "entry two",
	}))
	if result.IsError {
		t.Fatalf("update failed: %v", resultJSON(t, result))
	}

	result, _ = h.HandleNoteRename(ctx, makeRequest(map[string]any{
		"path": "journal/daily", "new_name": "monday",
	}))
	if result.IsError {
		t.Fatalf("rename failed: %v", resultJSON(t, result))
	}
	if m := resultJSON(t, result); m["path"] != "journal/monday" {
		t.Errorf("renamed path = %v", m["path"])
	}

	result, _ = h.HandleNoteDelete(ctx, makeRequest(map[string]any{"path": "journal/monday"}))
	if result.IsError {
		t.Fatalf("delete failed: %v", resultJSON(t, result))
	}

	result, _ = h.HandleNoteGet(ctx, makeRequest(map[string]any{"path": "journal/monday"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestNoteToolErrors(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	result, _ := h.HandleNoteCreate(ctx, makeRequest(map[string]any{
		"name": "x", "folder": "../escape",
	}))
	assertErrorCode(t, result, "INVALID_PATH")

	result, _ = h.HandleNoteCreate(ctx, makeRequest(map[string]any{
		"name": "x", "file_type": "pdf",
	}))
	assertErrorCode(t, result, "INVALID_REQUEST")

	if _, err := h.HandleNoteCreate(ctx, makeRequest(map[string]any{"name": "ok"})); err != nil {
		t.Fatalf("HandleNoteCreate: %v", err)
	}
	result, _ = h.HandleNoteCreate(ctx, makeRequest(map[string]any{"name": "ok", "file_type": "md"}))
	assertErrorCode(t, result, "ALREADY_EXISTS")
}

func TestNoteMoveTool(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	h.HandleFolderCreate(ctx, makeRequest(map[string]any{"name": "archive"}))
	h.HandleNoteCreate(ctx, makeRequest(map[string]any{"name": "n"}))

	result, _ := h.HandleNoteMove(ctx, makeRequest(map[string]any{
		"path": "n", "target_folder": "archive",
	}))
	if result.IsError {
		t.Fatalf("move failed: %v", resultJSON(t, result))
	}
	if m := resultJSON(t, result); m["path"] != "archive/n" {
		t.Errorf("moved path = %v", m["path"])
	}
}

func TestNoteListTool(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	h.HandleNoteCreate(ctx, makeRequest(map[string]any{"name": "a"}))
	h.HandleNoteCreate(ctx, makeRequest(map[string]any{"name": "b", "folder": "sub"}))

	result, _ := h.HandleNoteList(ctx, makeRequest(map[string]any{}))
	if m := resultJSON(t, result); m["count"] != float64(2) {
		t.Errorf("recursive count = %v", m["count"])
	}

	result, _ = h.HandleNoteList(ctx, makeRequest(map[string]any{"folder": "sub"}))
	if m := resultJSON(t, result); m["count"] != float64(1) {
		t.Errorf("folder count = %v", m["count"])
	}

	result, _ = h.HandleNoteList(ctx, makeRequest(map[string]any{"folder": "missing"}))
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestFolderTools(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	result, _ := h.HandleFolderCreate(ctx, makeRequest(map[string]any{
		"name": "projects", "parent": "",
	}))
	if result.IsError {
		t.Fatalf("folder create failed: %v", resultJSON(t, result))
	}

	result, _ = h.HandleFolderRename(ctx, makeRequest(map[string]any{
		"path": "projects", "new_name": "work",
	}))
	if m := resultJSON(t, result); m["new_path"] != "work" {
		t.Errorf("rename result = %v", m)
	}

	h.HandleFolderCreate(ctx, makeRequest(map[string]any{"name": "dst"}))
	result, _ = h.HandleFolderMove(ctx, makeRequest(map[string]any{
		"path": "work", "target_folder": "dst",
	}))
	if m := resultJSON(t, result); m["new_path"] != "dst/work" {
		t.Errorf("move result = %v", m)
	}

	result, _ = h.HandleFolderMove(ctx, makeRequest(map[string]any{
		"path": "dst", "target_folder": "dst/work",
	}))
	assertErrorCode(t, result, "INVALID_PATH")

	result, _ = h.HandleFolderTree(ctx, makeRequest(map[string]any{}))
	tree := resultJSON(t, result)
	if tree["name"] != "root" {
		t.Errorf("tree root = %v", tree["name"])
	}
}

func TestFolderDeleteTool(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	h.HandleNoteCreate(ctx, makeRequest(map[string]any{"name": "n", "folder": "full"}))

	result, _ := h.HandleFolderDelete(ctx, makeRequest(map[string]any{"path": "full"}))
	assertErrorCode(t, result, "NOT_EMPTY")

	result, _ = h.HandleFolderDelete(ctx, makeRequest(map[string]any{
		"path": "full", "recursive": true,
	}))
	if result.IsError {
		t.Fatalf("recursive delete failed: %v", resultJSON(t, result))
	}
}

func TestTextProcessTool(t *testing.T) {
	h := testSetup(t)
	ctx := context.Background()

	result, _ := h.HandleTextProcess(ctx, makeRequest(map[string]any{
		"operation": "reorder-list", "text": "- b\n- a",
	}))
	if result.IsError {
		t.Fatalf("text_process failed: %v", resultJSON(t, result))
	}
	if m := resultJSON(t, result); m["processed_text"] != "- a\n- b" {
		t.Errorf("processed = %v", m["processed_text"])
	}

	result, _ = h.HandleTextProcess(ctx, makeRequest(map[string]any{
		"operation": "summarize", "text": "long",
	}))
	assertErrorCode(t, result, "UNAVAILABLE")

	result, _ = h.HandleTextProcess(ctx, makeRequest(map[string]any{
		"operation": "nonsense", "text": "x",
	}))
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"note_get", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v", unknown)
	}
}

func TestNewServer_DisablesTools(t *testing.T) {
	v, err := vault.Open(filepath.Join(t.TempDir(), "notes"))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"note_delete", "folder_delete"}

	s := NewServer(v, textproc.NewService(nil), cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}
