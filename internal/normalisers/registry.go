package normalisers

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/normalisers/pdf"
	"github.com/custodia-labs/docqa/internal/normalisers/plaintext"
)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExtension map[string]driven.Normaliser
}

// NewRegistry creates a registry over the given normalisers. Later
// normalisers win when extensions collide.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byExtension: make(map[string]driven.Normaliser)}
	for _, n := range normalisers {
		for _, ext := range n.SupportedExtensions() {
			r.byExtension[ext] = n
		}
	}
	return r
}

// Default returns a registry with all built-in normalisers.
func Default() *Registry {
	return NewRegistry(
		plaintext.New(),
		pdf.New(),
	)
}

// ForExtension returns the normaliser for the extension. Unknown extensions
// fail the upload with domain.ErrDocumentLoad.
func (r *Registry) ForExtension(ext string) (driven.Normaliser, error) {
	n, ok := r.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrDocumentLoad, ext)
	}
	return n, nil
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	return exts
}
