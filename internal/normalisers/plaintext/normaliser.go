// Package plaintext extracts text from plain text documents.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents. The whole file becomes a single
// page; pagination is a print concept these formats don't have.
type Normaliser struct{}

// New creates a plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt", ".md", ".csv", ".log"}
}

// Normalise reads the file as one page of text.
func (n *Normaliser) Normalise(_ context.Context, path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read file: %v", domain.ErrDocumentLoad, err)
	}

	return []domain.Page{{Number: 1, Text: string(data)}}, nil
}
