package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// fakeEmbedder embeds text as word counts over a fixed vocabulary, giving
// deterministic, meaningful cosine similarities for test documents.
type fakeEmbedder struct {
	vocab []string
	model string
}

func newFakeEmbedder(vocab ...string) *fakeEmbedder {
	return &fakeEmbedder{vocab: vocab, model: "fake-embed"}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(f.vocab))
	for i, word := range f.vocab {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func (f *fakeEmbedder) Dimensions() int            { return len(f.vocab) }
func (f *fakeEmbedder) ModelName() string          { return f.model }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

// fakeLLM returns a canned result and records the last prompt.
type fakeLLM struct {
	mu         sync.Mutex
	result     driven.RawResult
	err        error
	lastPrompt string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (driven.RawResult, error) {
	f.mu.Lock()
	f.lastPrompt = prompt
	f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeLLM) prompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPrompt
}

func (f *fakeLLM) ModelName() string          { return "fake-llm" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// fakeFactory hands out preconstructed fakes.
type fakeFactory struct {
	embedder driven.EmbeddingService
	llm      driven.LLMService
	embedErr error
	llmErr   error
}

func (f *fakeFactory) EmbeddingService(context.Context, domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedder, nil
}

func (f *fakeFactory) LLMService(context.Context, domain.LLMSettings) (driven.LLMService, error) {
	if f.llmErr != nil {
		return nil, f.llmErr
	}
	return f.llm, nil
}

// fakeNormaliser returns fixed pages for any path.
type fakeNormaliser struct {
	pages []domain.Page
	err   error
}

func (f *fakeNormaliser) SupportedExtensions() []string { return []string{".txt", ".pdf"} }

func (f *fakeNormaliser) Normalise(context.Context, string) ([]domain.Page, error) {
	return f.pages, f.err
}

// fakeRegistry resolves every extension to one normaliser.
type fakeRegistry struct {
	normaliser driven.Normaliser
	err        error
}

func (f *fakeRegistry) ForExtension(string) (driven.Normaliser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.normaliser, nil
}

// fakeEvalStore keeps records in memory.
type fakeEvalStore struct {
	mu      sync.Mutex
	records map[string]domain.EvaluationRecord
}

func newFakeEvalStore() *fakeEvalStore {
	return &fakeEvalStore{records: make(map[string]domain.EvaluationRecord)}
}

func (f *fakeEvalStore) Upsert(_ context.Context, record domain.EvaluationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record
	return nil
}

func (f *fakeEvalStore) Get(_ context.Context, id string) (*domain.EvaluationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f *fakeEvalStore) List(context.Context) ([]domain.EvaluationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.EvaluationRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeEvalStore) Close() error { return nil }

// fakeSnapshotStore holds at most one snapshot in memory.
type fakeSnapshotStore struct {
	mu   sync.Mutex
	snap *driven.IndexSnapshot
}

func (f *fakeSnapshotStore) Save(_ context.Context, snap *driven.IndexSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = snap
	return nil
}

func (f *fakeSnapshotStore) Load(context.Context) (*driven.IndexSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap == nil {
		return nil, domain.ErrNotFound
	}
	return f.snap, nil
}

func (f *fakeSnapshotStore) Close() error { return nil }
