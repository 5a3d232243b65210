package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptQAAnswer renders the retrieval-augmented answering prompt.
	// The template expects %s (context) and %s (question) placeholders.
	PromptQAAnswer = "qa_answer"

	// PromptQAEvaluation renders the answer relevance judge prompt.
	// The template expects %s (question), %s (answer), %s (sources).
	PromptQAEvaluation = "qa_evaluation"
)
