package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// uploadOKStatus is the status reported for a fully processed upload.
const uploadOKStatus = "File uploaded and processed successfully"

// UploadService runs the document build pipeline: save the file, extract
// text, chunk, embed, index, and install the resulting answer chain.
//
// Uploads are serialized by a mutex so two builds never race to install the
// shared chain; the installation itself is a single atomic swap, so readers
// answering questions during a build keep using the previous chain until the
// new one is fully ready. A failure anywhere before the swap leaves the
// previous chain serving.
type UploadService struct {
	mu sync.Mutex

	uploadDir  string
	normaliser NormaliserRegistry
	processor  *chunker.Processor
	factory    driven.ProviderFactory
	builder    driven.IndexBuilder
	holder     *ChainHolder
	prompts    driven.PromptStore
	snapshots  driven.SnapshotStore

	embedding domain.EmbeddingSettings
	llm       domain.LLMSettings
	topK      int
}

// NormaliserRegistry resolves a text normaliser for a file extension.
type NormaliserRegistry interface {
	// ForExtension returns the normaliser for the extension, or an error
	// wrapped in domain.ErrDocumentLoad when the type is unsupported.
	ForExtension(ext string) (driven.Normaliser, error)
}

// UploadConfig assembles an UploadService.
type UploadConfig struct {
	UploadDir  string
	Normaliser NormaliserRegistry
	Processor  *chunker.Processor
	Factory    driven.ProviderFactory
	Builder    driven.IndexBuilder
	Holder     *ChainHolder
	Prompts    driven.PromptStore
	Snapshots  driven.SnapshotStore // optional
	Embedding  domain.EmbeddingSettings
	LLM        domain.LLMSettings
	TopK       int
}

// NewUploadService creates an upload service.
func NewUploadService(cfg UploadConfig) *UploadService {
	return &UploadService{
		uploadDir:  cfg.UploadDir,
		normaliser: cfg.Normaliser,
		processor:  cfg.Processor,
		factory:    cfg.Factory,
		builder:    cfg.Builder,
		holder:     cfg.Holder,
		prompts:    cfg.Prompts,
		snapshots:  cfg.Snapshots,
		embedding:  cfg.Embedding,
		llm:        cfg.LLM,
		topK:       cfg.TopK,
	}
}

// Process ingests one uploaded document end to end.
func (s *UploadService) Process(ctx context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("processing upload: %s", req.OriginalFilename)

	ext := detectExtension(req.OriginalFilename)
	path, savedName, err := s.saveFile(req.Content, ext)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	doc := &domain.Document{
		ID:               uuid.New().String(),
		OriginalFilename: req.OriginalFilename,
		SavedFilename:    savedName,
		Extension:        ext,
		UploadedAt:       time.Now().UTC(),
	}

	normaliser, err := s.normaliser.ForExtension(ext)
	if err != nil {
		return nil, err
	}

	doc.Pages, err = normaliser.Normalise(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks := s.processor.Process(doc)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no text extracted from %s", domain.ErrDocumentLoad, req.OriginalFilename)
	}
	logger.Debug("document split into %d chunks", len(chunks))

	chain, err := s.buildChain(ctx, doc, chunks, req.Embedding, req.LLM)
	if err != nil {
		return nil, err
	}

	// Publish the fully built chain. Readers see old or new, never a mix.
	if old := s.holder.Swap(chain); old != nil {
		old.Close()
	}
	logger.Info("index ready: %d chunks from %s", len(chunks), req.OriginalFilename)

	return &driving.UploadResult{
		OriginalFilename:  req.OriginalFilename,
		SavedFilename:     savedName,
		DetectedExtension: ext,
		Status:            uploadOKStatus,
		Chunks:            len(chunks),
	}, nil
}

// buildChain embeds the chunks, builds the index and wires the chain.
func (s *UploadService) buildChain(
	ctx context.Context,
	doc *domain.Document,
	chunks []domain.Chunk,
	embeddingOverride *domain.EmbeddingSettings,
	llmOverride *domain.LLMSettings,
) (*AnswerChain, error) {
	embeddingSettings := s.embedding
	if embeddingOverride != nil {
		embeddingSettings = *embeddingOverride
	}
	llmSettings := s.llm
	if llmOverride != nil {
		llmSettings = *llmOverride
	}

	embedder, err := s.factory.EmbeddingService(ctx, embeddingSettings)
	if err != nil {
		return nil, fmt.Errorf("create embedding service: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	index, err := s.builder.Build(vectors)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("build index: %w", err)
	}

	llm, err := s.factory.LLMService(ctx, llmSettings)
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("create LLM service: %w", err)
	}

	s.saveSnapshot(ctx, doc, chunks, vectors, embedder)

	return NewAnswerChain(embedder, index, chunks, llm, s.prompts, s.topK), nil
}

// saveSnapshot persists the built generation so a restart can restore it.
// Best-effort: snapshot failures are logged and never fail the build.
func (s *UploadService) saveSnapshot(
	ctx context.Context,
	doc *domain.Document,
	chunks []domain.Chunk,
	vectors [][]float32,
	embedder driven.EmbeddingService,
) {
	if s.snapshots == nil {
		return
	}
	snap := &driven.IndexSnapshot{
		DocumentName:   doc.OriginalFilename,
		EmbeddingModel: embedder.ModelName(),
		Dimensions:     embedder.Dimensions(),
		Chunks:         chunks,
		Vectors:        vectors,
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		logger.Warn("index snapshot failed: %v", err)
	}
}

// Restore rebuilds the answer chain from a persisted snapshot, if one exists
// and was produced under the current embedding configuration.
func (s *UploadService) Restore(ctx context.Context) error {
	if s.snapshots == nil {
		return domain.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return err
	}

	embedder, err := s.factory.EmbeddingService(ctx, s.embedding)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	if embedder.ModelName() != snap.EmbeddingModel {
		embedder.Close()
		return fmt.Errorf("%w: snapshot built with model %q, configured model is %q",
			domain.ErrInvalidInput, snap.EmbeddingModel, embedder.ModelName())
	}

	index, err := s.builder.Build(snap.Vectors)
	if err != nil {
		embedder.Close()
		return fmt.Errorf("rebuild index: %w", err)
	}

	llm, err := s.factory.LLMService(ctx, s.llm)
	if err != nil {
		embedder.Close()
		return fmt.Errorf("create LLM service: %w", err)
	}

	if old := s.holder.Swap(NewAnswerChain(embedder, index, snap.Chunks, llm, s.prompts, s.topK)); old != nil {
		old.Close()
	}
	logger.Info("restored index for %s (%d chunks)", snap.DocumentName, len(snap.Chunks))
	return nil
}

// saveFile writes the upload under a unique name in the upload directory.
func (s *UploadService) saveFile(content io.Reader, ext string) (path, savedName string, err error) {
	if err := os.MkdirAll(s.uploadDir, 0o700); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	savedName = strings.ReplaceAll(uuid.New().String(), "-", "")[:8] + ext
	path = filepath.Join(s.uploadDir, savedName)

	f, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}
	return path, savedName, nil
}

// detectExtension extracts the lowercase extension, defaulting to .bin
// when the filename carries none.
func detectExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ".bin"
	}
	return ext
}
