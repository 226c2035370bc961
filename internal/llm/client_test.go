package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quillvault/quill/internal/errors"
)

func fakeAPI(t *testing.T, reply string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
			"usage": map[string]any{
				"prompt_tokens":     10,
				"completion_tokens": 5,
				"total_tokens":      15,
			},
		})
	}))
}

func TestNewClient_Unconfigured(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	c := NewClient("", "")
	if c.IsConfigured() {
		t.Error("client with no key/model reports configured")
	}

	_, err := c.Transform(context.Background(), "do", "text")
	if !errors.Is(err, errors.ErrUnavailable) {
		t.Errorf("Transform unconfigured = %v, want UNAVAILABLE", err)
	}
	_, err = c.ModifySelection(context.Background(), "do", "sel", "", "")
	if !errors.Is(err, errors.ErrUnavailable) {
		t.Errorf("ModifySelection unconfigured = %v, want UNAVAILABLE", err)
	}
}

func TestNewClient_EnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_MODEL", "gpt-5-mini")

	c := NewClient("", "")
	if !c.IsConfigured() {
		t.Error("client should pick up env credentials")
	}
}

func TestTransform(t *testing.T) {
	var req map[string]any
	srv := fakeAPI(t, "transformed", &req)
	defer srv.Close()

	c := NewClient("test-key", "gpt-5", WithBaseURL(srv.URL))
	out, err := c.Transform(context.Background(), "Uppercase this.", "hello")
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if out != "transformed" {
		t.Errorf("out = %q", out)
	}

	if req["model"] != "gpt-5" {
		t.Errorf("model = %v", req["model"])
	}
	msgs, ok := req["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v", req["messages"])
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("first role = %v", first["role"])
	}
}

func TestModifySelection(t *testing.T) {
	var req map[string]any
	srv := fakeAPI(t, "**better**", &req)
	defer srv.Close()

	c := NewClient("test-key", "gpt-5", WithBaseURL(srv.URL))
	out, err := c.ModifySelection(context.Background(), "bold it", "plain", "ctx before", "ctx after")
	if err != nil {
		t.Fatalf("ModifySelection failed: %v", err)
	}
	if out != "**better**" {
		t.Errorf("out = %q", out)
	}

	msgs := req["messages"].([]any)
	user := msgs[1].(map[string]any)
	content, _ := user["content"].(string)
	for _, part := range []string{"bold it", "plain", "ctx before", "ctx after"} {
		if !strings.Contains(content, part) {
			t.Errorf("user prompt missing %q", part)
		}
	}
}

func TestModifySelection_EmptyOutputFallsBack(t *testing.T) {
	srv := fakeAPI(t, "  \n ", nil)
	defer srv.Close()

	c := NewClient("test-key", "gpt-5", WithBaseURL(srv.URL))
	out, err := c.ModifySelection(context.Background(), "do", "the selection", "", "")
	if err != nil {
		t.Fatalf("ModifySelection failed: %v", err)
	}
	if out != "the selection" {
		t.Errorf("out = %q, want original selection", out)
	}
}

func TestTransform_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-5", WithBaseURL(srv.URL))
	_, err := c.Transform(context.Background(), "do", "text")
	if !errors.Is(err, errors.ErrInternal) {
		t.Errorf("API failure = %v, want INTERNAL", err)
	}
}

func TestEstimateCost(t *testing.T) {
	u := chatUsage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000}

	if cost := estimateCost(u, "gpt-5"); cost != 11.25 {
		t.Errorf("gpt-5 cost = %v, want 11.25", cost)
	}
	if cost := estimateCost(u, "gpt-5-mini-2026-01-01"); cost != 2.25 {
		t.Errorf("dated mini cost = %v, want 2.25", cost)
	}
	if cost := estimateCost(u, "unknown-model"); cost != -1 {
		t.Errorf("unknown model cost = %v, want -1", cost)
	}
}
