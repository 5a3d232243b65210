package domain

import "time"

// Document represents an uploaded document after text extraction.
// It is the canonical representation before chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OriginalFilename is the name the file was uploaded with.
	OriginalFilename string

	// SavedFilename is the unique name the file was stored under.
	SavedFilename string

	// Extension is the detected file extension (e.g. ".pdf").
	Extension string

	// Pages holds the extracted text, one entry per page.
	// Plain text documents have a single page.
	Pages []Page

	// UploadedAt is when the document was received.
	UploadedAt time.Time
}

// Page is the extracted text of a single document page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text.
	Text string
}

// Chunk is a bounded contiguous slice of a document's extracted text.
// Chunks are immutable once created and owned by a single index generation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Text is the chunk content.
	Text string

	// Source locates the chunk within the document (e.g. "report.pdf p.2").
	Source string

	// Position is the ordinal position within the document.
	Position int
}
