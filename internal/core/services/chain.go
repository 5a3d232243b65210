package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
// The model is told to answer only from the supplied context and to reply with
// the "I don't know" sentinel when the context is insufficient.
const defaultAnswerPrompt = `You are an assistant that provides answers to questions based on a given context.

Answer the question based on the context. If you can't answer the question, reply "I don't know".

Be as concise as possible and go straight to the point.

Respond with a JSON object containing "answer" (string) and "sources" (list of context excerpts used).

Context: %s

Question: %s`

// unknownSource labels a source object the normalizer could not resolve
// to a locator.
const unknownSource = "unknown source"

// AnswerChain is an immutable snapshot of everything needed to answer
// questions about one indexed document: the embedding service that built the
// index, the index itself, the chunks it covers and the chat model. A chain
// is constructed only from a fully successful build, so holding a reference
// to one is the readiness guarantee.
type AnswerChain struct {
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	chunks      []domain.Chunk
	llm         driven.LLMService
	promptStore driven.PromptStore
	topK        int
}

// NewAnswerChain assembles a chain from the build outputs. The embedder must
// be the same service that produced the index vectors; mixing embedding
// spaces between build and query is a configuration error the caller must
// prevent.
func NewAnswerChain(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	chunks []domain.Chunk,
	llm driven.LLMService,
	promptStore driven.PromptStore,
	topK int,
) *AnswerChain {
	if topK <= 0 {
		topK = 3
	}
	return &AnswerChain{
		embedder:    embedder,
		index:       index,
		chunks:      chunks,
		llm:         llm,
		promptStore: promptStore,
		topK:        topK,
	}
}

// Answer retrieves the top-K chunks relevant to the question, prompts the
// chat model with them and normalizes the result. It also returns the
// retrieved chunks for the evaluation path.
func (c *AnswerChain) Answer(ctx context.Context, question string) (*domain.Answer, []domain.Chunk, error) {
	logger.Debug("embedding question (%d chars)", len(question))
	queryVec, err := c.embedder.Embed(ctx, question)
	if err != nil {
		return nil, nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := c.index.Query(ctx, queryVec, c.topK)
	if err != nil {
		return nil, nil, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("retrieved %d chunks", len(hits))

	retrieved := make([]domain.Chunk, 0, len(hits))
	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(c.chunks) {
			continue
		}
		chunk := c.chunks[hit.Position]
		retrieved = append(retrieved, chunk)
		texts = append(texts, chunk.Text)
	}

	prompt := fmt.Sprintf(c.loadPrompt(driven.PromptQAAnswer, defaultAnswerPrompt),
		strings.Join(texts, "\n"), question)

	raw, err := c.llm.Complete(ctx, prompt, driven.CompleteOptions{Structured: true})
	if err != nil {
		return nil, nil, fmt.Errorf("complete: %w", err)
	}

	answer, err := Normalize(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("normalize result: %w", err)
	}

	answer.Sources = resolveSources(answer, retrieved)
	return &answer, retrieved, nil
}

// Close releases the chain's provider resources.
func (c *AnswerChain) Close() {
	if c.embedder != nil {
		c.embedder.Close()
	}
	if c.llm != nil {
		c.llm.Close()
	}
}

// loadPrompt loads a prompt from the store, falling back to the default.
func (c *AnswerChain) loadPrompt(name, fallback string) string {
	if c.promptStore == nil {
		return fallback
	}
	prompt, err := c.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// resolveSources maps normalized model sources to chunk locators. A source
// matching a retrieved chunk's locator or text resolves to that locator.
// When the model cited nothing usable and the answer is grounded, the
// retrieved chunk locators stand in, mirroring what retrieval actually used.
func resolveSources(answer domain.Answer, retrieved []domain.Chunk) []string {
	var resolved []string
	seen := make(map[string]struct{})

	add := func(locator string) {
		if _, ok := seen[locator]; ok {
			return
		}
		seen[locator] = struct{}{}
		resolved = append(resolved, locator)
	}

	for _, src := range answer.Sources {
		if locator, ok := matchChunk(src, retrieved); ok {
			add(locator)
		} else if src != "" {
			add(src)
		}
	}

	if len(resolved) == 0 && !strings.EqualFold(strings.TrimSpace(answer.Answer), domain.DontKnow) {
		for _, chunk := range retrieved {
			add(chunk.Source)
		}
	}
	return resolved
}

// matchChunk resolves a model-cited source against the retrieved chunks.
func matchChunk(src string, retrieved []domain.Chunk) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", false
	}
	for _, chunk := range retrieved {
		if src == chunk.Source {
			return chunk.Source, true
		}
	}
	for _, chunk := range retrieved {
		if strings.Contains(chunk.Text, src) || strings.Contains(src, chunk.Text) {
			return chunk.Source, true
		}
	}
	return "", false
}
