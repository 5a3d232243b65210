package domain

// Question is a natural-language question about the active document.
type Question struct {
	Question string `json:"question"`
}

// Answer is a grounded answer with source attribution.
// Sources are chunk locators, fully resolved before the answer is returned.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// DontKnow is the sentinel the model is instructed to emit when the
// retrieved context is insufficient. It is an expected answer, not an error.
const DontKnow = "I don't know"
