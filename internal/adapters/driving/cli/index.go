package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driven/vector/brute"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// embedBatchSize is the number of chunks embedded per provider call while
// indexing. Small enough to keep the progress bar moving.
const embedBatchSize = 16

var indexCmd = &cobra.Command{
	Use:   "index [glob]",
	Short: "Index documents matching a glob pattern",
	Long: `Extracts, chunks and embeds every matching document, then persists
the resulting index so "docqa ask" and "docqa serve" can answer from it.

Patterns support doublestar globs, e.g. "docs/**/*.pdf". Files with an
unsupported extension are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	app, err := newApp(cfgFile)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	matches, err := doublestar.FilepathGlob(args[0])
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", args[0], err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no files match %q", args[0])
	}

	registry := normalisers.Default()
	processor := chunker.NewProcessor(
		chunker.WithChunkSize(app.cfg.Chunking.Size),
		chunker.WithOverlap(app.cfg.Chunking.Overlap),
	)

	var chunks []domain.Chunk
	indexed := 0
	lastName := ""
	for _, path := range matches {
		normaliser, err := registry.ForExtension(strings.ToLower(filepath.Ext(path)))
		if err != nil {
			logger.Debug("skipping %s: unsupported extension", path)
			continue
		}

		pages, err := normaliser.Normalise(ctx, path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			continue
		}

		doc := &domain.Document{
			ID:               uuid.New().String(),
			OriginalFilename: filepath.Base(path),
			Pages:            pages,
		}
		chunks = append(chunks, processor.Process(doc)...)
		indexed++
		lastName = doc.OriginalFilename
	}
	if len(chunks) == 0 {
		return errors.New("no indexable text in matched files")
	}

	// Positions must be index-wide, not per document.
	for i := range chunks {
		chunks[i].Position = i
	}

	embedder, err := app.factory.EmbeddingService(ctx, app.cfg.EmbeddingSettings())
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	defer embedder.Close()

	bar := progressbar.Default(int64(len(chunks)), "embedding")
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		batch, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		vectors = append(vectors, batch...)
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	// Build once to surface dimension mismatches before persisting.
	if _, err := brute.Build(vectors); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	name := lastName
	if indexed > 1 {
		name = fmt.Sprintf("%d documents", indexed)
	}
	snap := &driven.IndexSnapshot{
		DocumentName:   name,
		EmbeddingModel: embedder.ModelName(),
		Dimensions:     embedder.Dimensions(),
		Chunks:         chunks,
		Vectors:        vectors,
	}
	if err := app.snapshots.Save(ctx, snap); err != nil {
		return fmt.Errorf("save index: %w", err)
	}

	cmd.Printf("Indexed %d file(s), %d chunks.\n", indexed, len(chunks))
	return nil
}
