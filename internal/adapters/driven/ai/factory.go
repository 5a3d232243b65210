// Package ai provides the factory for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.ProviderFactory = (*Factory)(nil)

// DefaultPingTimeout is the maximum time to wait for connectivity validation.
const DefaultPingTimeout = 5 * time.Second

// embeddingDimensions maps known embedding models to their vector sizes.
// Unknown models fall back to the adapter's default.
var embeddingDimensions = map[string]int{
	"nomic-embed-text":       768,
	"all-minilm":             384,
	"mxbai-embed-large":      1024,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
}

// Factory creates provider-backed embedding and LLM services. Every service
// is pinged before it is returned, so a dead endpoint or a missing model
// fails at construction rather than on the first question.
type Factory struct {
	pingTimeout time.Duration
}

// Option configures the factory.
type Option func(*Factory)

// WithPingTimeout overrides the connectivity validation timeout.
func WithPingTimeout(d time.Duration) Option {
	return func(f *Factory) {
		if d > 0 {
			f.pingTimeout = d
		}
	}
}

// NewFactory creates a provider factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{pingTimeout: DefaultPingTimeout}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// EmbeddingService creates and validates an embedding service for the settings.
func (f *Factory) EmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider not configured", domain.ErrInvalidInput)
	}

	svc, err := f.createEmbedding(settings)
	if err != nil {
		return nil, err
	}

	if err := f.ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("validate embedding service: %w", err)
	}
	return svc, nil
}

// LLMService creates and validates a chat model service for the settings.
func (f *Factory) LLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: LLM provider not configured", domain.ErrInvalidInput)
	}

	svc, err := f.createLLM(settings)
	if err != nil {
		return nil, err
	}

	if err := f.ping(ctx, svc.Ping); err != nil {
		svc.Close()
		return nil, fmt.Errorf("validate LLM service: %w", err)
	}
	return svc, nil
}

// ping runs a connectivity check bounded by the factory's timeout.
func (f *Factory) ping(ctx context.Context, check func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	return check(ctx)
}

func (f *Factory) createEmbedding(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: embeddingDimensions[settings.Model],
		})

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}

func (f *Factory) createLLM(settings domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}
