package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Processor turns an extracted document into position-ordered chunks,
// tagging each chunk with its originating page locator.
type Processor struct {
	splitter *Splitter
}

// NewProcessor creates a processor with the given splitter options.
func NewProcessor(opts ...Option) *Processor {
	return &Processor{splitter: NewSplitter(opts...)}
}

// Process splits every page of the document and returns all chunks in
// document order. Pages without printable text produce no chunks.
func (p *Processor) Process(doc *domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	position := 0

	for _, page := range doc.Pages {
		for _, text := range p.splitter.Split(page.Text) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				ID:       uuid.New().String(),
				Text:     text,
				Source:   PageLocator(doc.OriginalFilename, page.Number),
				Position: position,
			})
			position++
		}
	}
	return chunks
}

// PageLocator renders the canonical source locator for a document page.
func PageLocator(filename string, page int) string {
	return fmt.Sprintf("%s p.%d", filename, page)
}
