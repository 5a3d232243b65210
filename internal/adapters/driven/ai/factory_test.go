package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// newOllamaCatalog serves an /api/tags catalog listing the given models.
func newOllamaCatalog(t *testing.T, models ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		body := `{"models":[`
		for i, m := range models {
			if i > 0 {
				body += ","
			}
			body += `{"name":"` + m + `"}`
		}
		body += `]}`
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFactoryEmbeddingService(t *testing.T) {
	srv := newOllamaCatalog(t, "nomic-embed-text:latest")
	factory := NewFactory()

	t.Run("available model", func(t *testing.T) {
		svc, err := factory.EmbeddingService(context.Background(), domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
			Model:    "nomic-embed-text",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svc.Close()
		if svc.ModelName() != "nomic-embed-text" {
			t.Errorf("model = %q", svc.ModelName())
		}
		if svc.Dimensions() != 768 {
			t.Errorf("dimensions = %d, want 768", svc.Dimensions())
		}
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := factory.EmbeddingService(context.Background(), domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
			Model:    "missing-model",
		})
		if !errors.Is(err, domain.ErrModelUnavailable) {
			t.Errorf("expected ErrModelUnavailable, got %v", err)
		}
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		_, err := factory.EmbeddingService(context.Background(), domain.EmbeddingSettings{})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("openai without API key", func(t *testing.T) {
		_, err := factory.EmbeddingService(context.Background(), domain.EmbeddingSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestFactoryLLMService(t *testing.T) {
	srv := newOllamaCatalog(t, "llama3.2:latest")
	factory := NewFactory()

	t.Run("available model", func(t *testing.T) {
		svc, err := factory.LLMService(context.Background(), domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
			Model:    "llama3.2",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer svc.Close()
		if svc.ModelName() != "llama3.2" {
			t.Errorf("model = %q", svc.ModelName())
		}
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := factory.LLMService(context.Background(), domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
			Model:    "gpt-oss",
		})
		if !errors.Is(err, domain.ErrModelUnavailable) {
			t.Errorf("expected ErrModelUnavailable, got %v", err)
		}
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		_, err := factory.LLMService(context.Background(), domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  "http://127.0.0.1:1",
			Model:    "llama3.2",
		})
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})
}
