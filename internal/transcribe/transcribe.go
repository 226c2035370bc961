// Package transcribe converts audio files to text through an
// OpenAI-compatible transcription API.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go"

	"github.com/quillvault/quill/internal/errors"
)

// DefaultBaseURL is the standard OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultModel is the transcription model used when none is configured.
const DefaultModel = string(openai.AudioModelWhisper1)

// supportedFormats lists accepted audio file extensions.
var supportedFormats = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"}

// Result is a completed transcription.
type Result struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Service validates and transcribes uploaded audio files.
type Service struct {
	httpClient   *http.Client
	apiKey       string
	model        string
	baseURL      string
	maxSizeBytes int64
}

// Option configures a Service.
type Option func(*Service)

// WithModel sets the transcription model.
func WithModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.model = model
		}
	}
}

// WithBaseURL points the service at a custom OpenAI-compatible API.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		s.httpClient = hc
	}
}

// NewService builds a transcription service. Empty apiKey falls back to
// OPENAI_API_KEY. maxSizeBytes caps accepted upload sizes.
func NewService(apiKey string, maxSizeBytes int64, opts ...Option) *Service {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	s := &Service{
		httpClient:   &http.Client{},
		apiKey:       apiKey,
		model:        DefaultModel,
		baseURL:      DefaultBaseURL,
		maxSizeBytes: maxSizeBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsConfigured reports whether the service can make API calls.
func (s *Service) IsConfigured() bool {
	return s != nil && s.apiKey != ""
}

// SupportedFormats returns the accepted audio extensions.
func SupportedFormats() []string {
	formats := make([]string, len(supportedFormats))
	copy(formats, supportedFormats)
	return formats
}

// IsSupportedFormat reports whether filename has an accepted extension.
func IsSupportedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range supportedFormats {
		if ext == f {
			return true
		}
	}
	return false
}

// Validate checks the file's extension and size. It runs before any API
// call so oversized or foreign files are rejected locally.
func (s *Service) Validate(path string) error {
	if !IsSupportedFormat(path) {
		return errors.NewInvalidRequest(fmt.Sprintf(
			"unsupported audio format %q, supported formats: %s",
			filepath.Ext(path), strings.Join(supportedFormats, ", "),
		))
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFound("audio file", path)
		}
		return errors.NewInternal(fmt.Errorf("stat audio file: %w", err))
	}
	if info.Size() == 0 {
		return errors.NewInvalidRequest("audio file is empty")
	}
	if s.maxSizeBytes > 0 && info.Size() > s.maxSizeBytes {
		return errors.NewInvalidRequest(fmt.Sprintf(
			"audio file is too large (%d bytes, max %d)", info.Size(), s.maxSizeBytes,
		))
	}
	return nil
}

// Transcribe validates path and sends it to the transcription API.
func (s *Service) Transcribe(ctx context.Context, path string) (*Result, error) {
	if !s.IsConfigured() {
		return nil, errors.NewUnavailable("transcription service is not configured")
	}
	if err := s.Validate(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("open audio file: %w", err))
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("build multipart form: %w", err))
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("read audio file: %w", err))
	}
	mw.WriteField("model", s.model)
	mw.WriteField("response_format", "verbose_json")
	if err := mw.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("finalize multipart form: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create transcription request: %w", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("send transcription request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.NewInternal(fmt.Errorf("transcription API returned status %d: %s", resp.StatusCode, msg))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("decode transcription response: %w", err))
	}
	return &result, nil
}
