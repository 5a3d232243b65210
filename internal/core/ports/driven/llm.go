package driven

import "context"

// LLMService produces completions from a chat model backend.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4 class models)
type LLMService interface {
	// Complete produces a completion for the prompt. When structured is
	// true the backend is asked to emit a JSON object with "answer" and
	// "sources" fields. Backends vary in how strictly they honour this,
	// so the RawResult must be treated as untrusted input requiring
	// normalization.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (RawResult, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable and the configured model is
	// available. Called once at provider construction.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures completion behaviour.
type CompleteOptions struct {
	// Structured requests a JSON object honouring the answer/sources shape.
	Structured bool

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// RawResult is the untrusted output of a completion call.
// Exactly one of Object and Text carries the payload: Object is set when the
// backend returned a decodable JSON object, Text otherwise.
type RawResult struct {
	// Object is the decoded JSON object, when the backend produced one.
	Object map[string]any

	// Text is the raw completion text when no object could be decoded.
	Text string
}

// IsObject returns true when the result carries a decoded JSON object.
func (r RawResult) IsObject() bool {
	return r.Object != nil
}
