package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// EvaluationStore persists answer evaluations.
// Upsert is idempotent per question: writing a record whose ID already exists
// replaces the stored answer, sources and verdict.
type EvaluationStore interface {
	// Upsert inserts or updates an evaluation record by ID.
	Upsert(ctx context.Context, record domain.EvaluationRecord) error

	// Get retrieves a record by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.EvaluationRecord, error)

	// List returns all records ordered by creation time.
	List(ctx context.Context) ([]domain.EvaluationRecord, error)

	// Close releases resources.
	Close() error
}
