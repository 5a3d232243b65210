// Package brute provides an exact brute-force cosine similarity index.
//
// For the corpus sizes docqa handles (hundreds to low thousands of chunks
// per document) exact scan is fast enough and keeps top-k results exact,
// which the answering pipeline relies on.
package brute

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable cosine similarity index over one document generation.
// It is either fully built or does not exist; there is no partial state and
// no incremental add. Replacing a document means building a new Index.
type Index struct {
	vecs [][]float32
	mags []float64
	dim  int
}

// Build constructs an index from chunk embeddings. The vector at position i
// belongs to chunk position i. All vectors must share the same dimension;
// a mismatch fails with domain.ErrDimensionMismatch.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no vectors", domain.ErrInvalidInput)
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vector at position 0", domain.ErrDimensionMismatch)
	}

	mags := make([]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dims, expected %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
		mags[i] = magnitude(v)
	}

	return &Index{
		vecs: append([][]float32(nil), vectors...),
		mags: mags,
		dim:  dim,
	}, nil
}

// Query returns the k nearest neighbours by cosine similarity, ordered by
// descending score. Ties break by ascending position so results stay
// deterministic.
func (i *Index) Query(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != i.dim {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d",
			domain.ErrDimensionMismatch, len(query), i.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	qm := magnitude(query)
	if qm == 0 {
		return nil, nil
	}

	hits := make([]driven.VectorHit, 0, len(i.vecs))
	for j := range i.vecs {
		if i.mags[j] == 0 {
			continue
		}
		score := dot(query, i.vecs[j]) / (qm * i.mags[j])
		if math.IsNaN(score) {
			continue
		}
		hits = append(hits, driven.VectorHit{Position: j, Similarity: score})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].Position < hits[b].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Dimensions returns the vector size all entries share.
func (i *Index) Dimensions() int {
	return i.dim
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	return len(i.vecs)
}

func dot(a, b []float32) float64 {
	var sum float64
	for j := range a {
		sum += float64(a[j]) * float64(b[j])
	}
	return sum
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
