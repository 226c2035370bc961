package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `json:"port"`

	// NotesDir is the sandbox root for the note store. All relative
	// paths in the API are resolved against it.
	NotesDir string `json:"notes_dir"`

	// UploadsDir holds temporary audio uploads awaiting transcription.
	UploadsDir string `json:"uploads_dir"`

	// TraceDir holds the append-only JSONL trace logs.
	TraceDir string `json:"trace_dir"`

	// MaxAudioSizeMB is the upload size cap enforced before transcription.
	MaxAudioSizeMB int `json:"max_audio_size_mb"`

	// OpenAIAPIKey enables the LLM-backed text operations and the
	// transcription backend when set.
	OpenAIAPIKey string `json:"openai_api_key,omitempty"`

	// OpenAIModel is the chat model used for LLM text operations.
	OpenAIModel string `json:"openai_model,omitempty"`

	// AllowedOrigins is the CORS allowlist. "*" allows any origin.
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           5000,
		NotesDir:       "notes",
		UploadsDir:     "uploads",
		TraceDir:       "traces",
		MaxAudioSizeMB: 100,
		AllowedOrigins: []string{"*"},
	}
}

// MaxAudioSizeBytes returns the upload cap in bytes.
func (c *Config) MaxAudioSizeBytes() int64 {
	return int64(c.MaxAudioSizeMB) * 1024 * 1024
}

// Load builds the effective configuration: defaults, then
// baseDir/config.json if present, then environment variables. A .env
// file in the working directory is loaded into the environment first.
func Load(baseDir string) (*Config, error) {
	// Missing .env is fine; it is a development convenience.
	_ = godotenv.Load()

	fileCfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}

	cfg := Merge(DefaultConfig(), fileCfg)
	applyEnv(cfg)
	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns a zero-valued config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides cfg fields from environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("QUILL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("QUILL_NOTES_DIR"); v != "" {
		cfg.NotesDir = v
	}
	if v := os.Getenv("QUILL_UPLOADS_DIR"); v != "" {
		cfg.UploadsDir = v
	}
	if v := os.Getenv("QUILL_TRACE_DIR"); v != "" {
		cfg.TraceDir = v
	}
	if v := os.Getenv("MAX_AUDIO_SIZE_MB"); v != "" {
		if mb, err := strconv.Atoi(v); err == nil {
			cfg.MaxAudioSizeMB = mb
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.NotesDir = overlay.NotesDir
	if result.NotesDir == "" {
		result.NotesDir = base.NotesDir
	}

	result.UploadsDir = overlay.UploadsDir
	if result.UploadsDir == "" {
		result.UploadsDir = base.UploadsDir
	}

	result.TraceDir = overlay.TraceDir
	if result.TraceDir == "" {
		result.TraceDir = base.TraceDir
	}

	result.MaxAudioSizeMB = overlay.MaxAudioSizeMB
	if result.MaxAudioSizeMB == 0 {
		result.MaxAudioSizeMB = base.MaxAudioSizeMB
	}

	result.OpenAIAPIKey = overlay.OpenAIAPIKey
	if result.OpenAIAPIKey == "" {
		result.OpenAIAPIKey = base.OpenAIAPIKey
	}

	result.OpenAIModel = overlay.OpenAIModel
	if result.OpenAIModel == "" {
		result.OpenAIModel = base.OpenAIModel
	}

	result.AllowedOrigins = mergeStringSlice(base.AllowedOrigins, overlay.AllowedOrigins)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
