package openai

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

func newChatServer(t *testing.T, content string, capture *chatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		resp := chatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{})
		resp.Choices[0].Message.Content = content
		resp.Choices[0].FinishReason = "stop"
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewLLMServiceRequiresKey(t *testing.T) {
	if _, err := NewLLMService(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestCompleteStructured(t *testing.T) {
	var gotReq chatCompletionRequest
	srv := newChatServer(t, `{"answer": "Anna", "sources": ["p.2"]}`, &gotReq)

	svc, err := NewLLMService(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{Structured: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object in structured mode", gotReq.ResponseFormat)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
	if !result.IsObject() || result.Object["answer"] != "Anna" {
		t.Errorf("result = %+v", result)
	}
}

func TestCompletePlainText(t *testing.T) {
	srv := newChatServer(t, "plain answer", nil)

	svc, _ := NewLLMService(Config{APIKey: "test-key", BaseURL: srv.URL})
	result, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsObject() || result.Text != "plain answer" {
		t.Errorf("result = %+v", result)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"requests"}}`))
	}))
	t.Cleanup(srv.Close)

	svc, _ := NewLLMService(Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{})
	if err == nil {
		t.Fatal("expected error for API failure")
	}
}

func TestCompleteUnreachable(t *testing.T) {
	svc, _ := NewLLMService(Config{APIKey: "test-key", BaseURL: "http://127.0.0.1:1"})
	_, err := svc.Complete(context.Background(), "who?", driven.CompleteOptions{})
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}
