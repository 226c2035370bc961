package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var noteGetToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Read a note, including its content."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the vault root, without extension.")),
)

var noteCreateToolDef = mcp.NewTool("note_create",
	mcp.WithDescription("Create a new note."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Note name without extension.")),
	mcp.WithString("folder", mcp.Description("Destination folder path. Empty means the vault root.")),
	mcp.WithString("content", mcp.Description("Initial note content.")),
	mcp.WithString("file_type", mcp.Description("Note file type: txt (default) or md."), mcp.Enum("txt", "md")),
)

var noteUpdateToolDef = mcp.NewTool("note_update",
	mcp.WithDescription("Replace a note's content."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the vault root.")),
	mcp.WithString("content", mcp.Required(), mcp.Description("New note content.")),
)

var noteDeleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete a note."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the vault root.")),
)

var noteRenameToolDef = mcp.NewTool("note_rename",
	mcp.WithDescription("Rename a note in place, keeping its file type."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the vault root.")),
	mcp.WithString("new_name", mcp.Required(), mcp.Description("New note name without extension.")),
)

var noteMoveToolDef = mcp.NewTool("note_move",
	mcp.WithDescription("Move a note to another folder."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Note path relative to the vault root.")),
	mcp.WithString("target_folder", mcp.Description("Destination folder path. Empty means the vault root.")),
)

var noteListToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List notes, newest first. Without a folder, lists every note in the vault."),
	mcp.WithString("folder", mcp.Description("Folder to list. Omit to list all notes recursively.")),
)

var folderTreeToolDef = mcp.NewTool("folder_tree",
	mcp.WithDescription("Get the folder tree with contained notes."),
	mcp.WithString("path", mcp.Description("Subtree root. Empty means the vault root.")),
)

var folderCreateToolDef = mcp.NewTool("folder_create",
	mcp.WithDescription("Create a folder."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Folder name.")),
	mcp.WithString("parent", mcp.Description("Parent folder path. Empty means the vault root.")),
)

var folderDeleteToolDef = mcp.NewTool("folder_delete",
	mcp.WithDescription("Delete a folder."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Folder path relative to the vault root.")),
	mcp.WithBoolean("recursive", mcp.Description("Delete contents too. Without it, non-empty folders are refused.")),
)

var folderRenameToolDef = mcp.NewTool("folder_rename",
	mcp.WithDescription("Rename a folder in place."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Folder path relative to the vault root.")),
	mcp.WithString("new_name", mcp.Required(), mcp.Description("New folder name.")),
)

var folderMoveToolDef = mcp.NewTool("folder_move",
	mcp.WithDescription("Move a folder under another folder."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Folder path relative to the vault root.")),
	mcp.WithString("target_folder", mcp.Description("Destination folder path. Empty means the vault root.")),
)

var textProcessToolDef = mcp.NewTool("text_process",
	mcp.WithDescription("Transform text: clean-transcription, reorder-list, summarize, or custom-prompt."),
	mcp.WithString("operation", mcp.Required(),
		mcp.Description("Operation to run."),
		mcp.Enum("clean-transcription", "reorder-list", "summarize", "custom-prompt")),
	mcp.WithString("text", mcp.Required(), mcp.Description("Input text.")),
	mcp.WithString("order", mcp.Description("reorder-list order: asc (default), desc, or reverse.")),
	mcp.WithString("prompt", mcp.Description("Instruction for custom-prompt.")),
)
