// Package llm wraps an OpenAI-compatible chat API for text transformation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go"

	"github.com/quillvault/quill/internal/errors"
	"github.com/quillvault/quill/internal/trace"
)

// DefaultBaseURL is the standard OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client calls an OpenAI-compatible /chat/completions endpoint. A client
// without an API key or model is valid but reports itself unconfigured and
// fails operations with an unavailability error.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	tracer     *trace.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the client at a custom OpenAI-compatible API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTrace attaches a trace logger for request/response events.
func WithTrace(t *trace.Logger) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// NewClient builds a client. Empty apiKey falls back to OPENAI_API_KEY and
// empty model to OPENAI_MODEL; the base URL falls back to OPENAI_BASE_URL.
func NewClient(apiKey, model string, opts ...Option) *Client {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}

	c := &Client{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == DefaultBaseURL {
		if env := os.Getenv("OPENAI_BASE_URL"); env != "" {
			c.baseURL = strings.TrimSuffix(env, "/")
		}
	}
	return c
}

// IsConfigured reports whether the client can make API calls.
func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != "" && c.model != ""
}

// Transform applies an instruction to text and returns the model's output.
func (c *Client) Transform(ctx context.Context, instruction, text string) (string, error) {
	if !c.IsConfigured() {
		return "", errors.NewUnavailable("LLM client is not configured")
	}

	c.traceEvent("llm.modify.request", map[string]any{
		"model":              c.model,
		"instruction_length": len(instruction),
		"selection_length":   len(text),
	})

	out, usage, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(instruction),
		openai.UserMessage(text),
	})
	if err != nil {
		return "", err
	}

	c.traceEvent("llm.modify.response", map[string]any{
		"model":         c.model,
		"output_length": len(out),
		"usage":         usage.asMap(),
		"cost_usd":      estimateCost(usage, c.model),
	})

	return out, nil
}

const modifySystemPrompt = "You are an assistant inside a document editor. " +
	"You must return ONLY the replacement text for the selected passage. " +
	"Return Markdown-ready text with correct formatting (headings, lists, indentation) " +
	"when appropriate. Do not include code fences, quotes, or commentary."

// ModifySelection rewrites a selected passage per the instruction, given the
// surrounding context. An empty model response falls back to the selection.
func (c *Client) ModifySelection(ctx context.Context, instruction, selected, before, after string) (string, error) {
	if !c.IsConfigured() {
		return "", errors.NewUnavailable("LLM client is not configured")
	}

	userPrompt := fmt.Sprintf(
		"User instruction:\n%s\n\n"+
			"Selected text:\n<<<<\n%s\n>>>>\n\n"+
			"Context before (up to 200 chars):\n<<<<\n%s\n>>>>\n\n"+
			"Context after (up to 200 chars):\n<<<<\n%s\n>>>>\n\n"+
			"Return ONLY the replacement Markdown for the selected text.",
		instruction, selected, before, after,
	)

	c.traceEvent("llm.modify.request", map[string]any{
		"model":              c.model,
		"instruction_length": len(instruction),
		"selection_length":   len(selected),
		"before_length":      len(before),
		"after_length":       len(after),
	})

	out, usage, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(modifySystemPrompt),
		openai.UserMessage(userPrompt),
	})
	if err != nil {
		return "", err
	}

	c.traceEvent("llm.modify.response", map[string]any{
		"model":         c.model,
		"output_length": len(out),
		"usage":         usage.asMap(),
		"cost_usd":      estimateCost(usage, c.model),
	})

	if strings.TrimSpace(out) == "" {
		return selected, nil
	}
	return out, nil
}

type chatRequest struct {
	Model    string                                   `json:"model"`
	Messages []openai.ChatCompletionMessageParamUnion `json:"messages"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	PromptDetails    struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"prompt_tokens_details"`
}

func (u chatUsage) asMap() map[string]any {
	return map[string]any{
		"input_tokens":  u.PromptTokens,
		"output_tokens": u.CompletionTokens,
		"total_tokens":  u.TotalTokens,
		"cached_tokens": u.PromptDetails.CachedTokens,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage chatUsage `json:"usage"`
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, chatUsage, error) {
	var usage chatUsage

	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", usage, errors.NewInternal(fmt.Errorf("marshal chat request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", usage, errors.NewInternal(fmt.Errorf("create chat request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", usage, errors.NewInternal(fmt.Errorf("send chat request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", usage, errors.NewInternal(fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, msg))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", usage, errors.NewInternal(fmt.Errorf("decode chat response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", usage, errors.NewInternal(fmt.Errorf("chat response has no choices"))
	}

	return parsed.Choices[0].Message.Content, parsed.Usage, nil
}

func (c *Client) traceEvent(event string, data map[string]any) {
	c.tracer.Write(event, data)
}

// pricing is USD per million tokens.
type pricing struct {
	input       float64
	cachedInput float64
	output      float64
}

var pricingTable = []struct {
	model string
	pricing
}{
	{"gpt-5.2", pricing{input: 1.75, cachedInput: 0.175, output: 14.00}},
	{"gpt-5.1", pricing{input: 1.25, cachedInput: 0.125, output: 10.00}},
	{"gpt-5-mini", pricing{input: 0.25, cachedInput: 0.025, output: 2.00}},
	{"gpt-5-nano", pricing{input: 0.05, cachedInput: 0.005, output: 0.40}},
	{"gpt-5", pricing{input: 1.25, cachedInput: 0.125, output: 10.00}},
}

// estimateCost returns the approximate request cost in USD, or -1 when the
// model has no pricing entry.
func estimateCost(u chatUsage, model string) float64 {
	var p pricing
	found := false
	for _, entry := range pricingTable {
		if model == entry.model || strings.HasPrefix(model, entry.model+"-") {
			p, found = entry.pricing, true
			break
		}
	}
	if !found {
		return -1
	}

	billableInput := u.PromptTokens - u.PromptDetails.CachedTokens
	if billableInput < 0 {
		billableInput = 0
	}
	cost := float64(billableInput)/1e6*p.input +
		float64(u.PromptDetails.CachedTokens)/1e6*p.cachedInput +
		float64(u.CompletionTokens)/1e6*p.output
	return cost
}
