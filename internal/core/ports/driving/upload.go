package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// UploadService ingests a document and builds the answering index.
type UploadService interface {
	// Process saves the file, extracts and chunks its text, embeds the
	// chunks and installs a freshly built index. A failure anywhere in the
	// pipeline leaves the previously installed index serving.
	Process(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// UploadRequest carries an uploaded file and optional provider overrides.
type UploadRequest struct {
	// OriginalFilename is the name the file was uploaded with.
	OriginalFilename string

	// Content is the file body.
	Content io.Reader

	// Embedding optionally overrides the default embedding settings for
	// this build. Nil means use the process defaults.
	Embedding *domain.EmbeddingSettings

	// LLM optionally overrides the default LLM settings for this build.
	LLM *domain.LLMSettings
}

// UploadResult reports the outcome of a processed upload.
type UploadResult struct {
	OriginalFilename  string `json:"original_filename"`
	SavedFilename     string `json:"saved_filename"`
	DetectedExtension string `json:"detected_extension"`
	Status            string `json:"status"`
	Chunks            int    `json:"chunks"`
}
