package brute

import "github.com/custodia-labs/docqa/internal/core/ports/driven"

// Ensure Builder implements the interface.
var _ driven.IndexBuilder = Builder{}

// Builder adapts Build to the driven.IndexBuilder port.
type Builder struct{}

// Build constructs a brute-force index over the vectors.
func (Builder) Build(vectors [][]float32) (driven.VectorIndex, error) {
	return Build(vectors)
}
