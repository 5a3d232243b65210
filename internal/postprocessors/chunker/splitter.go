// Package chunker splits extracted document text into overlapping chunks.
package chunker

import "strings"

// DefaultChunkSize is the default maximum chunk length in characters.
const DefaultChunkSize = 1500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// defaultSeparators is the priority list tried coarsest first:
// paragraph, line, word, then single characters as a last resort.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter splits text recursively by a priority list of separators,
// falling back to finer separators only where a candidate segment still
// exceeds the chunk size. Consecutive chunks share an overlap of original
// text to preserve context across boundaries.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk length in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// NewSplitter creates a splitter with the given options.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split splits text into chunks of at most the configured size.
// Empty input produces no chunks; chunk order follows the original text.
// The result is deterministic for identical input and configuration.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.merge(s.pieces(text, s.separators))
}

// pieces recursively reduces text to segments of at most chunkSize,
// preferring the coarsest separator that yields valid-sized segments.
// Separators are retained at the end of the preceding segment so that
// concatenating all segments reproduces the input exactly.
func (s *Splitter) pieces(text string, separators []string) []string {
	if len(text) <= s.chunkSize {
		return []string{text}
	}
	if len(separators) == 0 {
		return cutEvery(text, s.chunkSize)
	}

	sep := separators[0]
	if sep == "" {
		return cutEvery(text, s.chunkSize)
	}
	if !strings.Contains(text, sep) {
		return s.pieces(text, separators[1:])
	}

	var out []string
	for _, segment := range strings.SplitAfter(text, sep) {
		if segment == "" {
			continue
		}
		if len(segment) <= s.chunkSize {
			out = append(out, segment)
			continue
		}
		out = append(out, s.pieces(segment, separators[1:])...)
	}
	return out
}

// merge accumulates segments into chunks up to chunkSize, carrying the
// trailing segments of each chunk (up to overlap characters) into the next.
func (s *Splitter) merge(segments []string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, segment := range segments {
		segLen := len(segment)

		if currentLen > 0 && currentLen+segLen > s.chunkSize {
			chunks = append(chunks, strings.Join(current, ""))

			// Keep a suffix of the current chunk as overlap for the next.
			for len(current) > 0 && (currentLen > s.overlap || currentLen+segLen > s.chunkSize) {
				currentLen -= len(current[0])
				current = current[1:]
			}
		}

		current = append(current, segment)
		currentLen += segLen
	}

	if currentLen > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}
	return chunks
}

// cutEvery hard-cuts text into size-length runs when no separator applies.
func cutEvery(text string, size int) []string {
	var out []string
	for len(text) > size {
		out = append(out, text[:size])
		text = text[size:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}
