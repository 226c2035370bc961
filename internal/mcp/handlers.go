package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quillvault/quill/internal/config"
	"github.com/quillvault/quill/internal/errors"
	"github.com/quillvault/quill/internal/textproc"
	"github.com/quillvault/quill/internal/vault"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	vault *vault.Vault
	text  *textproc.Service
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(v *vault.Vault, text *textproc.Service, cfg *config.Config) *Handlers {
	return &Handlers{vault: v, text: text, cfg: cfg}
}

// Request types for each tool

// NoteGetRequest represents the arguments for note_get.
type NoteGetRequest struct {
	Path string `json:"path"`
}

// NoteCreateRequest represents the arguments for note_create.
type NoteCreateRequest struct {
	Name     string `json:"name"`
	Folder   string `json:"folder,omitempty"`
	Content  string `json:"content,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

// NoteUpdateRequest represents the arguments for note_update.
type NoteUpdateRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// NoteDeleteRequest represents the arguments for note_delete.
type NoteDeleteRequest struct {
	Path string `json:"path"`
}

// NoteRenameRequest represents the arguments for note_rename.
type NoteRenameRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

// NoteMoveRequest represents the arguments for note_move.
type NoteMoveRequest struct {
	Path         string `json:"path"`
	TargetFolder string `json:"target_folder,omitempty"`
}

// NoteListRequest represents the arguments for note_list.
type NoteListRequest struct {
	Folder *string `json:"folder,omitempty"`
}

// FolderTreeRequest represents the arguments for folder_tree.
type FolderTreeRequest struct {
	Path string `json:"path,omitempty"`
}

// FolderCreateRequest represents the arguments for folder_create.
type FolderCreateRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// FolderDeleteRequest represents the arguments for folder_delete.
type FolderDeleteRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
}

// FolderRenameRequest represents the arguments for folder_rename.
type FolderRenameRequest struct {
	Path    string `json:"path"`
	NewName string `json:"new_name"`
}

// FolderMoveRequest represents the arguments for folder_move.
type FolderMoveRequest struct {
	Path         string `json:"path"`
	TargetFolder string `json:"target_folder,omitempty"`
}

// TextProcessRequest represents the arguments for text_process.
type TextProcessRequest struct {
	Operation string `json:"operation"`
	Text      string `json:"text"`
	Order     string `json:"order,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
}

// HandleNoteGet handles the note_get tool call.
func (h *Handlers) HandleNoteGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	note, err := h.vault.GetNote(input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(note)
}

// HandleNoteCreate handles the note_create tool call.
func (h *Handlers) HandleNoteCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.FileType == "" {
		input.FileType = "txt"
	}

	note, err := h.vault.CreateNote(input.Folder, input.Name, input.Content, input.FileType)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(note)
}

// HandleNoteUpdate handles the note_update tool call.
func (h *Handlers) HandleNoteUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	note, err := h.vault.UpdateNote(input.Path, input.Content)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(note)
}

// HandleNoteDelete handles the note_delete tool call.
func (h *Handlers) HandleNoteDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.vault.DeleteNote(input.Path); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"deleted": input.Path})
}

// HandleNoteRename handles the note_rename tool call.
func (h *Handlers) HandleNoteRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteRenameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	note, err := h.vault.RenameNote(input.Path, input.NewName)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(note)
}

// HandleNoteMove handles the note_move tool call.
func (h *Handlers) HandleNoteMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteMoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	note, err := h.vault.MoveNote(input.Path, input.TargetFolder)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(note)
}

// HandleNoteList handles the note_list tool call.
func (h *Handlers) HandleNoteList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[NoteListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var notes []vault.Note
	if input.Folder != nil {
		notes, err = h.vault.ListNotes(*input.Folder)
	} else {
		notes, err = h.vault.ListAllNotes()
	}
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"notes": notes,
		"count": len(notes),
	})
}

// HandleFolderTree handles the folder_tree tool call.
func (h *Handlers) HandleFolderTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[FolderTreeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	tree, err := h.vault.Tree(input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(tree)
}

// HandleFolderCreate handles the folder_create tool call.
func (h *Handlers) HandleFolderCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[FolderCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	created, err := h.vault.CreateFolder(input.Parent, input.Name)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": created})
}

// HandleFolderDelete handles the folder_delete tool call.
func (h *Handlers) HandleFolderDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[FolderDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.vault.DeleteFolder(input.Path, input.Recursive); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"deleted": input.Path})
}

// HandleFolderRename handles the folder_rename tool call.
func (h *Handlers) HandleFolderRename(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[FolderRenameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	newPath, err := h.vault.RenameFolder(input.Path, input.NewName)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"old_path": input.Path,
		"new_path": newPath,
	})
}

// HandleFolderMove handles the folder_move tool call.
func (h *Handlers) HandleFolderMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[FolderMoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	newPath, err := h.vault.MoveFolder(input.Path, input.TargetFolder)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{
		"old_path": input.Path,
		"new_path": newPath,
	})
}

// HandleTextProcess handles the text_process tool call.
func (h *Handlers) HandleTextProcess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decodeArgs[TextProcessRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.text.Process(ctx, textproc.Operation(input.Operation), input.Text, textproc.Options{
		Order:  input.Order,
		Prompt: input.Prompt,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if qErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    qErr.Code,
			"message": qErr.Message,
			"status":  qErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like absolute file paths
		if qErr.Code != errors.ErrInternal && qErr.Details != nil {
			errorObj["details"] = qErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
