package driven

import "context"

// VectorIndex provides nearest-neighbour search over one index generation.
// An index is built once from a full (chunks, vectors) set and is immutable
// afterwards; replacing a document means building a whole new index. There is
// no partial or incrementally updated state.
type VectorIndex interface {
	// Query finds the k nearest neighbours to the query vector, ordered by
	// descending similarity. Ties are broken by ascending chunk position so
	// results are deterministic.
	Query(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Dimensions returns the vector size all entries share.
	Dimensions() int

	// Len returns the number of indexed vectors.
	Len() int
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Position is the chunk position the vector belongs to.
	Position int

	// Similarity is the cosine similarity score.
	Similarity float64
}
