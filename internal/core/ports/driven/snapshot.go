package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IndexSnapshot is the persisted form of one index generation: the chunks
// and their embedding vectors, plus enough metadata to refuse restoring a
// snapshot produced under a different embedding configuration.
type IndexSnapshot struct {
	// DocumentName is the original filename of the indexed document.
	DocumentName string

	// EmbeddingModel is the model that produced the vectors.
	EmbeddingModel string

	// Dimensions is the vector size all entries share.
	Dimensions int

	// Chunks are the indexed chunks in position order.
	Chunks []domain.Chunk

	// Vectors are the chunk embeddings, parallel to Chunks.
	Vectors [][]float32
}

// SnapshotStore persists index generations across restarts.
// Save replaces the previous snapshot wholesale, mirroring the in-memory
// whole-index replacement semantics.
type SnapshotStore interface {
	// Save persists a snapshot, replacing any previous one.
	Save(ctx context.Context, snap *IndexSnapshot) error

	// Load returns the stored snapshot, or domain.ErrNotFound when none exists.
	Load(ctx context.Context) (*IndexSnapshot, error)

	// Close releases resources.
	Close() error
}
