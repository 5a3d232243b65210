package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func newGenerateServer(t *testing.T, completion string, capture *generateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		json.NewEncoder(w).Encode(generateResponse{Response: completion, Done: true})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteStructured(t *testing.T) {
	var gotReq generateRequest
	srv := newGenerateServer(t, `{"answer": "Anna", "sources": ["p.2"]}`, &gotReq)

	svc := NewLLMService(Config{BaseURL: srv.URL, Model: "llama3.2"})
	result, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{Structured: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.Format != "json" {
		t.Errorf("format = %q, want json in structured mode", gotReq.Format)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
	if !result.IsObject() {
		t.Fatalf("expected decoded object, got text %q", result.Text)
	}
	if result.Object["answer"] != "Anna" {
		t.Errorf("answer = %v", result.Object["answer"])
	}
}

func TestCompletePlainText(t *testing.T) {
	srv := newGenerateServer(t, "  just some text  ", nil)

	svc := NewLLMService(Config{BaseURL: srv.URL})
	result, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{Structured: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsObject() {
		t.Fatal("expected text result")
	}
	if result.Text != "just some text" {
		t.Errorf("text = %q", result.Text)
	}
}

func TestCompleteBrokenJSONFallsBackToText(t *testing.T) {
	srv := newGenerateServer(t, `{"answer": "Anna`, nil)

	svc := NewLLMService(Config{BaseURL: srv.URL})
	result, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{Structured: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsObject() {
		t.Fatal("broken JSON must not decode to an object")
	}
	if result.Text != `{"answer": "Anna` {
		t.Errorf("text = %q", result.Text)
	}
}

func TestCompleteOptionsForwarded(t *testing.T) {
	var gotReq generateRequest
	srv := newGenerateServer(t, "ok", &gotReq)

	svc := NewLLMService(Config{BaseURL: srv.URL})
	_, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{
		MaxTokens:   128,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotReq.Options == nil || gotReq.Options.NumPredict != 128 || gotReq.Options.Temperature != 0.2 {
		t.Errorf("options = %+v", gotReq.Options)
	}
}

func TestCompleteUnreachable(t *testing.T) {
	svc := NewLLMService(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{})
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestLLMPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("model present", func(t *testing.T) {
		svc := NewLLMService(Config{BaseURL: srv.URL, Model: "llama3.2"})
		if err := svc.Ping(context.Background()); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("model missing", func(t *testing.T) {
		svc := NewLLMService(Config{BaseURL: srv.URL, Model: "mistral"})
		if err := svc.Ping(context.Background()); !errors.Is(err, domain.ErrModelUnavailable) {
			t.Errorf("expected ErrModelUnavailable, got %v", err)
		}
	})
}
