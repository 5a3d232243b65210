package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.AnswerService = (*QAService)(nil)

// evaluationTimeout bounds the background evaluation of one answer.
const evaluationTimeout = 2 * time.Minute

// QAService answers questions against whatever chain is currently installed
// in the holder. Before the first successful upload every question fails
// with domain.ErrNotReady, including the empty question.
type QAService struct {
	holder    *ChainHolder
	evaluator *EvaluationService // optional
}

// NewQAService creates a QA service. The evaluator may be nil, in which
// case answers are not evaluated.
func NewQAService(holder *ChainHolder, evaluator *EvaluationService) *QAService {
	return &QAService{holder: holder, evaluator: evaluator}
}

// Answer produces a grounded answer for the question. Evaluation runs after
// the answer is complete, in the background, and can never fail the answer.
func (s *QAService) Answer(ctx context.Context, question domain.Question) (*domain.Answer, error) {
	chain, err := s.holder.Get()
	if err != nil {
		return nil, err
	}

	logger.Info("answering question (%d chars)", len(question.Question))
	if strings.TrimSpace(question.Question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	answer, retrieved, err := chain.Answer(ctx, question.Question)
	if err != nil {
		logger.Warn("answer failed: %v", err)
		return nil, err
	}

	if s.evaluator != nil {
		// Fire-and-forget: the response path never waits on evaluation.
		go s.evaluate(question.Question, *answer, retrieved)
	}
	return answer, nil
}

// evaluate judges and records one answer with its own deadline, detached
// from the request that produced it.
func (s *QAService) evaluate(question string, answer domain.Answer, retrieved []domain.Chunk) {
	ctx, cancel := context.WithTimeout(context.Background(), evaluationTimeout)
	defer cancel()

	if err := s.evaluator.EvaluateAndStore(ctx, question, answer, retrieved); err != nil {
		logger.Warn("background evaluation failed: %v", err)
	}
}
