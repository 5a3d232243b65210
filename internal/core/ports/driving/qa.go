package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AnswerService answers questions against the active document index.
type AnswerService interface {
	// Answer retrieves relevant chunks and produces a grounded answer.
	// Returns domain.ErrNotReady before any successful upload.
	Answer(ctx context.Context, question domain.Question) (*domain.Answer, error)
}

// MetricsService aggregates recorded answer evaluations.
type MetricsService interface {
	// Metrics returns hit rate and mean reciprocal rank over all
	// recorded evaluations.
	Metrics(ctx context.Context) (*domain.EvaluationMetrics, error)
}
