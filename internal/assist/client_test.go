package assist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestComplete_ParsesFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  We open at 9am.  "}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	got, err := c.Complete(context.Background(), "when do you open?")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if got != "We open at 9am." {
		t.Fatalf("answer = %q, want trimmed content", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o" {
		t.Fatalf("model = %q, want default gpt-4o", gotReq.Model)
	}
	if gotReq.MaxTokens != 150 {
		t.Fatalf("max_tokens = %d, want 150", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v, want single user message", gotReq.Messages)
	}
}

func TestComplete_Non200IsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	_, err = c.Complete(context.Background(), "hours?")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want %v", err, ErrUpstream)
	}
}

func TestComplete_EmptyChoicesIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	_, err = c.Complete(context.Background(), "hours?")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want %v", err, ErrUpstream)
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
