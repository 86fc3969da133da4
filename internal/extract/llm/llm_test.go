package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Model != "test-model" {
			t.Fatalf("unexpected model %q", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "hello",
			"done":     true,
		})
	}))
	defer srv.Close()

	o := NewOllama(srv.Client(), srv.URL, "test-model")

	out, err := o.Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Fatalf("expected hello, got %q", out)
	}
	if err := o.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestOllamaCompleteBadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	o := NewOllama(srv.Client(), srv.URL, "test-model")

	if _, err := o.Complete(context.Background(), "say hello"); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestOllamaPingIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "x", "done": false})
	}))
	defer srv.Close()

	o := NewOllama(srv.Client(), srv.URL, "test-model")

	if err := o.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail on incomplete response")
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	o := NewOpenAI(srv.Client(), srv.URL, "gpt-test", "test-key")

	out, err := o.Complete(context.Background(), "reply ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("expected ok, got %q", out)
	}
}

func TestOpenAIRequiresKey(t *testing.T) {
	o := NewOpenAI(&http.Client{Timeout: time.Second}, "", "gpt-test", "")

	if _, err := o.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected an error without an api key")
	}
}

func TestDoRequestWithResilienceHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := HTTPClientConfig{
		Client: srv.Client(),
		Backoff: BackoffConfig{
			MaxRetries:      5,
			InitialInterval: 50 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
		},
	}
	cb := newBreaker("test")

	ctx, cancel := context.WithTimeout(context.Background(), 75*time.Millisecond)
	defer cancel()

	_, err := doRequestWithResilience(ctx, cfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, srv.URL, nil)
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}
