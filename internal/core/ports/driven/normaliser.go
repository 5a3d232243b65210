package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Normaliser extracts page text from an uploaded file.
// Each normaliser handles specific file extensions (e.g., PDF, plain text).
type Normaliser interface {
	// SupportedExtensions returns the lowercase extensions this normaliser
	// handles, including the leading dot.
	SupportedExtensions() []string

	// Normalise extracts the text of the file at path into pages.
	// Extraction failures are reported wrapped in domain.ErrDocumentLoad.
	Normalise(ctx context.Context, path string) ([]domain.Page, error)
}

// CommandRunner executes an external command and returns its combined output.
// It exists so normalisers shelling out to tools like pdftotext can be tested
// without the tool installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
