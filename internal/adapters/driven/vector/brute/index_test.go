package brute

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestBuild(t *testing.T) {
	t.Run("valid vectors", func(t *testing.T) {
		idx, err := Build([][]float32{{1, 0}, {0, 1}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx.Len() != 2 {
			t.Errorf("expected 2 vectors, got %d", idx.Len())
		}
		if idx.Dimensions() != 2 {
			t.Errorf("expected dim 2, got %d", idx.Dimensions())
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Build(nil)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := Build([][]float32{{1, 0}, {0, 1, 0}})
		if !errors.Is(err, domain.ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})

	t.Run("zero-length vector", func(t *testing.T) {
		_, err := Build([][]float32{{}})
		if !errors.Is(err, domain.ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	idx, err := Build([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("orders by similarity", func(t *testing.T) {
		hits, err := idx.Query(ctx, []float32{1, 0, 0}, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 2 {
			t.Fatalf("expected 2 hits, got %d", len(hits))
		}
		if hits[0].Position != 0 {
			t.Errorf("expected position 0 first, got %d", hits[0].Position)
		}
		if hits[1].Position != 2 {
			t.Errorf("expected position 2 second, got %d", hits[1].Position)
		}
		if hits[0].Similarity < hits[1].Similarity {
			t.Error("hits not ordered by descending similarity")
		}
	})

	t.Run("k exceeds corpus", func(t *testing.T) {
		hits, err := idx.Query(ctx, []float32{1, 0, 0}, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 3 {
			t.Errorf("expected 3 hits, got %d", len(hits))
		}
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := idx.Query(ctx, []float32{1, 0}, 1)
		if !errors.Is(err, domain.ErrDimensionMismatch) {
			t.Errorf("expected ErrDimensionMismatch, got %v", err)
		}
	})

	t.Run("zero query vector", func(t *testing.T) {
		hits, err := idx.Query(ctx, []float32{0, 0, 0}, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 0 {
			t.Errorf("expected no hits for zero vector, got %d", len(hits))
		}
	})

	t.Run("non-positive k", func(t *testing.T) {
		hits, err := idx.Query(ctx, []float32{1, 0, 0}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if hits != nil {
			t.Errorf("expected nil hits, got %v", hits)
		}
	})
}

func TestQuery_Deterministic(t *testing.T) {
	ctx := context.Background()
	// Duplicate vectors tie exactly; order must fall back to position.
	idx, err := Build([][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 5; run++ {
		hits, err := idx.Query(ctx, []float32{1, 0}, 3)
		if err != nil {
			t.Fatal(err)
		}
		if hits[0].Position != 1 || hits[1].Position != 2 {
			t.Fatalf("tie not broken by position: %+v", hits)
		}
	}
}
