package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driven/vector/brute"
	"github.com/custodia-labs/docqa/internal/config"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// app wires the service graph from configuration. Commands build one and
// close it when done.
type app struct {
	cfg *config.Config

	holder    *services.ChainHolder
	uploads   *services.UploadService
	qa        *services.QAService
	evaluator *services.EvaluationService

	factory   *ai.Factory
	prompts   *file.PromptStore
	evalStore *sqlite.Store
	snapshots *bolt.SnapshotStore
}

// newApp loads the configuration and assembles the services. No provider
// calls are made here; providers are validated when first used.
func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(cfg.Storage.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	evalStore, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("evaluation store: %w", err)
	}

	snapshots, err := bolt.NewSnapshotStore(cfg.Storage.DataDir)
	if err != nil {
		evalStore.Close()
		return nil, fmt.Errorf("snapshot store: %w", err)
	}

	a := &app{
		cfg:       cfg,
		holder:    services.NewChainHolder(),
		factory:   ai.NewFactory(),
		prompts:   prompts,
		evalStore: evalStore,
		snapshots: snapshots,
	}

	a.uploads = services.NewUploadService(services.UploadConfig{
		UploadDir:  cfg.Storage.UploadDir,
		Normaliser: normalisers.Default(),
		Processor: chunker.NewProcessor(
			chunker.WithChunkSize(cfg.Chunking.Size),
			chunker.WithOverlap(cfg.Chunking.Overlap),
		),
		Factory:   a.factory,
		Builder:   brute.Builder{},
		Holder:    a.holder,
		Prompts:   prompts,
		Snapshots: snapshots,
		Embedding: cfg.EmbeddingSettings(),
		LLM:       cfg.LLMSettings(),
		TopK:      cfg.Retrieval.TopK,
	})
	a.qa = services.NewQAService(a.holder, nil)
	return a, nil
}

// enableEvaluation attaches the background answer evaluator. Best-effort:
// when the judge model cannot be created the service runs without
// evaluation rather than refusing to start.
func (a *app) enableEvaluation(ctx context.Context) {
	llm, err := a.factory.LLMService(ctx, a.cfg.LLMSettings())
	if err != nil {
		logger.Warn("evaluation disabled: %v", err)
		return
	}
	a.evaluator = services.NewEvaluationService(llm, a.evalStore, a.prompts)
	a.qa = services.NewQAService(a.holder, a.evaluator)
}

// metrics returns the metrics reader. Metrics aggregation only touches the
// evaluation store, so it works even when the judge model is unavailable.
func (a *app) metrics() driving.MetricsService {
	if a.evaluator != nil {
		return a.evaluator
	}
	return services.NewEvaluationService(nil, a.evalStore, a.prompts)
}

// Close releases all held resources.
func (a *app) Close() {
	if chain := a.holder.Swap(nil); chain != nil {
		chain.Close()
	}
	if a.snapshots != nil {
		a.snapshots.Close()
	}
	if a.evalStore != nil {
		a.evalStore.Close()
	}
}
