package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure EvaluationService implements the metrics interface.
var _ driving.MetricsService = (*EvaluationService)(nil)

// defaultEvaluationPrompt is the fallback judge prompt.
const defaultEvaluationPrompt = `You are an expert evaluator for a question answering system.
Your task is to analyze the relevance of the generated answer to the given question.
Based on the relevance of the generated answer, you will classify it
as "NON_RELEVANT", "PARTLY_RELEVANT", or "RELEVANT".

Here is the data for evaluation:

Question: %s
Generated Answer: %s
Sources: %s

Respond with a JSON object containing "relevance" (one of NON_RELEVANT, PARTLY_RELEVANT, RELEVANT)
and "explanation" (a brief justification).`

// EvaluationService judges answers with an LLM and records the verdicts.
// It runs off the answer-return path; its failures are logged, never
// surfaced to the user who asked the question.
type EvaluationService struct {
	llm     driven.LLMService
	store   driven.EvaluationStore
	prompts driven.PromptStore
}

// NewEvaluationService creates an evaluation service.
func NewEvaluationService(llm driven.LLMService, store driven.EvaluationStore, prompts driven.PromptStore) *EvaluationService {
	return &EvaluationService{llm: llm, store: store, prompts: prompts}
}

// EvaluateAndStore judges one answer and upserts its evaluation record.
// Records are keyed by the question hash, so re-asking the same question
// updates the stored verdict instead of duplicating it.
func (s *EvaluationService) EvaluateAndStore(
	ctx context.Context,
	question string,
	answer domain.Answer,
	retrieved []domain.Chunk,
) error {
	result, err := s.Evaluate(ctx, question, answer)
	if err != nil {
		return fmt.Errorf("evaluate answer: %w", err)
	}

	now := time.Now().UTC()
	record := domain.EvaluationRecord{
		ID:          domain.EvaluationID(question),
		Question:    question,
		Answer:      answer.Answer,
		Sources:     answer.Sources,
		Relevance:   result.Relevance,
		Explanation: result.Explanation,
		SourceRank:  sourceRank(answer.Sources, retrieved),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("store evaluation: %w", err)
	}
	logger.Debug("evaluation recorded: %s -> %s", record.ID[:8], record.Relevance)
	return nil
}

// Evaluate asks the judge model to classify the answer's relevance.
func (s *EvaluationService) Evaluate(ctx context.Context, question string, answer domain.Answer) (*domain.EvaluationResult, error) {
	template := defaultEvaluationPrompt
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptQAEvaluation); err == nil {
			template = p
		}
	}
	prompt := fmt.Sprintf(template, question, answer.Answer, strings.Join(answer.Sources, "; "))

	raw, err := s.llm.Complete(ctx, prompt, driven.CompleteOptions{Structured: true})
	if err != nil {
		return nil, fmt.Errorf("judge completion: %w", err)
	}
	return parseVerdict(raw)
}

// Metrics aggregates all recorded evaluations: hit rate is the fraction of
// answers judged RELEVANT, MRR the mean reciprocal rank of the first
// supporting source.
func (s *EvaluationService) Metrics(ctx context.Context) (*domain.EvaluationMetrics, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}

	metrics := &domain.EvaluationMetrics{Evaluations: len(records)}
	if len(records) == 0 {
		return metrics, nil
	}

	var hits, sumRR float64
	for _, r := range records {
		if r.Relevance == domain.RelevanceFull {
			hits++
		}
		if r.SourceRank > 0 {
			sumRR += 1.0 / float64(r.SourceRank)
		}
	}
	n := float64(len(records))
	metrics.HitRate = hits / n
	metrics.MRR = sumRR / n
	return metrics, nil
}

// parseVerdict decodes the judge's output, accepting either the requested
// JSON shape or a loose "Relevance: X" text form.
func parseVerdict(raw driven.RawResult) (*domain.EvaluationResult, error) {
	if raw.IsObject() {
		relevance, _ := raw.Object["relevance"].(string)
		explanation, _ := raw.Object["explanation"].(string)
		r := domain.Relevance(strings.ToUpper(strings.TrimSpace(relevance)))
		if r.IsValid() {
			return &domain.EvaluationResult{Relevance: r, Explanation: explanation}, nil
		}
	}

	text := raw.Text
	if raw.IsObject() {
		text = fmt.Sprint(raw.Object)
	}
	for _, r := range []domain.Relevance{domain.RelevanceNone, domain.RelevancePartly, domain.RelevanceFull} {
		if strings.Contains(text, string(r)) {
			return &domain.EvaluationResult{Relevance: r, Explanation: strings.TrimSpace(text)}, nil
		}
	}
	return nil, fmt.Errorf("%w: judge output: %v", domain.ErrUnexpectedResultShape, raw)
}

// sourceRank returns the 1-based rank of the first retrieved chunk whose
// locator the answer cites, or 0 when none is cited.
func sourceRank(cited []string, retrieved []domain.Chunk) int {
	citedSet := make(map[string]struct{}, len(cited))
	for _, c := range cited {
		citedSet[c] = struct{}{}
	}
	for i, chunk := range retrieved {
		if _, ok := citedSet[chunk.Source]; ok {
			return i + 1
		}
	}
	return 0
}
