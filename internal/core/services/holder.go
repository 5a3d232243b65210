package services

import (
	"sync/atomic"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ChainHolder is the process-wide slot for the active answer chain.
//
// It enforces the single-writer/multi-reader contract: a build publishes its
// fully constructed chain with one atomic pointer store, and readers always
// observe either the complete old chain or the complete new one, never a mix.
// When builds race, the later completion wins and the earlier result is
// discarded (last-write-wins).
type ChainHolder struct {
	chain atomic.Pointer[AnswerChain]
}

// NewChainHolder creates an empty holder. Until the first successful build
// installs a chain, Get returns domain.ErrNotReady.
func NewChainHolder() *ChainHolder {
	return &ChainHolder{}
}

// Get returns the active chain, or domain.ErrNotReady when no document has
// been processed yet.
func (h *ChainHolder) Get() (*AnswerChain, error) {
	chain := h.chain.Load()
	if chain == nil {
		return nil, domain.ErrNotReady
	}
	return chain, nil
}

// Ready returns true once a chain is installed.
func (h *ChainHolder) Ready() bool {
	return h.chain.Load() != nil
}

// Swap installs a new chain and returns the previous one (nil on first
// install). The swap is a single indivisible pointer replacement.
func (h *ChainHolder) Swap(chain *AnswerChain) *AnswerChain {
	return h.chain.Swap(chain)
}
