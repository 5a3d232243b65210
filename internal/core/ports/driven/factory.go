package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ProviderFactory creates AI service adapters from settings.
// Construction is expected to validate connectivity and model availability
// up front, so a misconfigured provider fails the triggering operation
// immediately rather than on first use.
type ProviderFactory interface {
	// EmbeddingService creates and validates an embedding service.
	EmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (EmbeddingService, error)

	// LLMService creates and validates an LLM service.
	LLMService(ctx context.Context, settings domain.LLMSettings) (LLMService, error)
}

// IndexBuilder constructs a vector index from chunk embeddings.
type IndexBuilder interface {
	// Build creates an index over the vectors. The vector at position i
	// belongs to chunk position i.
	Build(vectors [][]float32) (VectorIndex, error)
}
