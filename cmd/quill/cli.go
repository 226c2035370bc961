package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/quillvault/quill/internal/config"
	"github.com/quillvault/quill/internal/errors"
	"github.com/quillvault/quill/internal/llm"
	"github.com/quillvault/quill/internal/mcp"
	"github.com/quillvault/quill/internal/server"
	"github.com/quillvault/quill/internal/textproc"
	"github.com/quillvault/quill/internal/trace"
	"github.com/quillvault/quill/internal/transcribe"
	"github.com/quillvault/quill/internal/vault"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "quill",
		Usage:   "Sandboxed filesystem note store",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(cfg),
			mcpCmd(cfg),
			treeCmd(cfg),
			listCmd(cfg),
			newCmd(cfg),
			rmCmd(cfg),
			processCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// openVault opens the configured notes root.
func openVault(cfg *config.Config) (*vault.Vault, error) {
	v, err := vault.Open(cfg.NotesDir)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// buildLLM assembles the chat client. The client is always returned; an
// unconfigured one reports itself via IsConfigured.
func buildLLM(cfg *config.Config, tracer *trace.Logger) *llm.Client {
	return llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, llm.WithTrace(tracer))
}

// buildText assembles the text processing service with the configured LLM
// backend, if any.
func buildText(client *llm.Client) *textproc.Service {
	if !client.IsConfigured() {
		return textproc.NewService(nil)
	}
	return textproc.NewService(client)
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (overrides config)"},
			&cli.StringFlag{Name: "notes-dir", Usage: "Notes root directory (overrides config)"},
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}
			if c.IsSet("notes-dir") {
				cfg.NotesDir = c.String("notes-dir")
			}
			log := setupLogger(c.Bool("verbose"))

			v, err := openVault(cfg)
			if err != nil {
				return outputError(err)
			}

			backendTrace := trace.New(filepath.Join(cfg.TraceDir, "backend.jsonl"), "backend")
			clientTrace := trace.New(filepath.Join(cfg.TraceDir, "frontend.jsonl"), "frontend")

			client := buildLLM(cfg, backendTrace)
			text := buildText(client)
			transcriber := transcribe.NewService(cfg.OpenAIAPIKey, cfg.MaxAudioSizeBytes())

			srv := server.NewServer(v, text, client, transcriber, cfg, backendTrace, clientTrace, log)
			log.Info("notes root", "dir", v.Root())
			return server.Run(srv, log)
		},
	}
}

// mcpCmd creates the mcp command (stdio server).
func mcpCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			log := setupLogger(false)

			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				log.Warn("ignoring unknown disabled tools", "tools", strings.Join(unknown, ", "))
			}

			v, err := openVault(cfg)
			if err != nil {
				return outputError(err)
			}

			backendTrace := trace.New(filepath.Join(cfg.TraceDir, "backend.jsonl"), "backend")
			text := buildText(buildLLM(cfg, backendTrace))

			return mcp.Run(v, text, cfg, Version)
		},
	}
}

// treeCmd creates the tree command.
func treeCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the folder tree as JSON",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			v, err := openVault(cfg)
			if err != nil {
				return outputError(err)
			}

			tree, err := v.Tree(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(tree)
		},
	}
}

// listCmd creates the list command.
func listCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List notes, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "List only this folder (default: all notes)"},
		},
		Action: func(c *cli.Context) error {
			v, err := openVault(cfg)
			if err != nil {
				return outputError(err)
			}

			var notes []vault.Note
			if c.IsSet("folder") {
				notes, err = v.ListNotes(c.String("folder"))
			} else {
				notes, err = v.ListAllNotes()
			}
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"notes": notes,
				"count": len(notes),
			})
		},
	}
}

// newCmd creates the new command.
func newCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Create a note (content read from stdin when piped)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Note name"},
			&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Destination folder"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Value: "txt", Usage: "File type: txt|md"},
		},
		Action: func(c *cli.Context) error {
			v, err := openVault(cfg)
			if err != nil {
				return outputError(err)
			}

			content := ""
			if stdinHasData() {
				content, err = readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			note, err := v.CreateNote(c.String("folder"), c.String("name"), content, c.String("type"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(note)
		},
	}
}

// rmCmd creates the rm command.
func rmCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a note",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("note path is required"))
			}

			v, err := openVault(cfg)
			if err != nil {
				return outputError(err)
			}

			path := c.Args().First()
			if err := v.DeleteNote(path); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"deleted": path})
		},
	}
}

// processCmd creates the process command.
func processCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "process",
		Usage: "Transform text from stdin",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "operation", Aliases: []string{"o"}, Required: true, Usage: "Operation: clean-transcription|reorder-list|summarize|custom-prompt"},
			&cli.StringFlag{Name: "order", Usage: "reorder-list order: asc|desc|reverse"},
			&cli.StringFlag{Name: "prompt", Usage: "Instruction for custom-prompt"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("text must be piped via stdin"))
			}
			text, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			backendTrace := trace.New(filepath.Join(cfg.TraceDir, "backend.jsonl"), "backend")
			svc := buildText(buildLLM(cfg, backendTrace))

			result, err := svc.Process(context.Background(), textproc.Operation(c.String("operation")), text, textproc.Options{
				Order:  c.String("order"),
				Prompt: c.String("prompt"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(result)
		},
	}
}

// outputJSON prints indented JSON output for CLI.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if qErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", qErr.Code, qErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
