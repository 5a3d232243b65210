package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Relevance classifies how well a generated answer matches its question.
type Relevance string

// Relevance classes emitted by the evaluation judge.
const (
	RelevanceNone   Relevance = "NON_RELEVANT"
	RelevancePartly Relevance = "PARTLY_RELEVANT"
	RelevanceFull   Relevance = "RELEVANT"
)

// IsValid returns true if the relevance class is recognised.
func (r Relevance) IsValid() bool {
	switch r {
	case RelevanceNone, RelevancePartly, RelevanceFull:
		return true
	default:
		return false
	}
}

// EvaluationResult is the judge model's verdict on a single answer.
type EvaluationResult struct {
	// Relevance is the judged relevance class.
	Relevance Relevance

	// Explanation is the judge's brief reasoning.
	Explanation string
}

// EvaluationRecord is a persisted evaluation of one question/answer pair.
// Records are keyed by a hash of the question text so re-asking the same
// question updates rather than duplicates its record.
type EvaluationRecord struct {
	// ID is the deterministic record key derived from the question.
	ID string

	// Question is the question text.
	Question string

	// Answer is the generated answer text.
	Answer string

	// Sources are the resolved source locators for the answer.
	Sources []string

	// Relevance is the judged relevance class.
	Relevance Relevance

	// Explanation is the judge's brief reasoning.
	Explanation string

	// SourceRank is the 1-based rank of the first source supporting the
	// answer, or 0 when no source supports it. Used for MRR.
	SourceRank int

	// CreatedAt is when the record was first written.
	CreatedAt time.Time

	// UpdatedAt is when the record was last updated.
	UpdatedAt time.Time
}

// EvaluationID derives the deterministic record key for a question.
func EvaluationID(question string) string {
	sum := sha256.Sum256([]byte(question))
	return hex.EncodeToString(sum[:])
}

// EvaluationMetrics aggregates recorded evaluations.
type EvaluationMetrics struct {
	// Evaluations is the number of recorded evaluations.
	Evaluations int

	// HitRate is the fraction of answers judged RELEVANT.
	HitRate float64

	// MRR is the mean reciprocal rank of the first supporting source.
	MRR float64
}
