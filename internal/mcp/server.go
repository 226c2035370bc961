// Package mcp exposes the note vault over the Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quillvault/quill/internal/config"
	"github.com/quillvault/quill/internal/textproc"
	"github.com/quillvault/quill/internal/vault"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"note_get": {
		def:     noteGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteGet },
	},
	"note_create": {
		def:     noteCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteCreate },
	},
	"note_update": {
		def:     noteUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteUpdate },
	},
	"note_delete": {
		def:     noteDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteDelete },
	},
	"note_rename": {
		def:     noteRenameToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteRename },
	},
	"note_move": {
		def:     noteMoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteMove },
	},
	"note_list": {
		def:     noteListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteList },
	},
	"folder_tree": {
		def:     folderTreeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderTree },
	},
	"folder_create": {
		def:     folderCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderCreate },
	},
	"folder_delete": {
		def:     folderDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderDelete },
	},
	"folder_rename": {
		def:     folderRenameToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderRename },
	},
	"folder_move": {
		def:     folderMoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFolderMove },
	},
	"text_process": {
		def:     textProcessToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTextProcess },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with vault tools registered. Tools listed
// in cfg.DisabledTools are excluded from registration.
func NewServer(v *vault.Vault, text *textproc.Service, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"quill",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(v, text, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(v *vault.Vault, text *textproc.Service, cfg *config.Config, version string) error {
	s := NewServer(v, text, cfg, version)
	return server.ServeStdio(s)
}
