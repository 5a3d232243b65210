package chunker

import (
	"strings"
	"testing"
)

func TestNewSplitter(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := NewSplitter()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, s.overlap)
		}
	})

	t.Run("custom sizes", func(t *testing.T) {
		s := NewSplitter(WithChunkSize(500), WithOverlap(50))
		if s.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", s.chunkSize)
		}
		if s.overlap != 50 {
			t.Errorf("expected overlap 50, got %d", s.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		s := NewSplitter(WithChunkSize(100), WithOverlap(150))
		if s.overlap >= s.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := NewSplitter(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", s.overlap)
		}
	})
}

func TestSplit_Empty(t *testing.T) {
	s := NewSplitter()
	if chunks := s.Split(""); chunks != nil {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestSplit_ShortText(t *testing.T) {
	s := NewSplitter(WithChunkSize(100), WithOverlap(10))
	chunks := s.Split("hello world")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello world" {
		t.Errorf("unexpected chunk content: %q", chunks[0])
	}
}

func TestSplit_SizeBound(t *testing.T) {
	s := NewSplitter(WithChunkSize(40), WithOverlap(8))
	text := strings.Repeat("one two three four five six seven.\n\n", 20)

	for i, c := range s.Split(text) {
		if len(c) > 40 {
			t.Errorf("chunk %d exceeds size bound: %d chars", i, len(c))
		}
	}
}

func TestSplit_UnsplittableRun(t *testing.T) {
	// A run with no separators at all still gets hard-cut to the bound.
	s := NewSplitter(WithChunkSize(10), WithOverlap(2))
	chunks := s.Split(strings.Repeat("x", 35))

	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 10 {
			t.Errorf("chunk %d exceeds bound: %d", i, len(c))
		}
	}
	if joined := strings.Join(chunks, ""); joined != strings.Repeat("x", 35) {
		t.Error("hard-cut chunks should reconstruct the input")
	}
}

func TestSplit_PrefersCoarseSeparator(t *testing.T) {
	s := NewSplitter(WithChunkSize(30), WithOverlap(0))
	text := "first paragraph here.\n\nsecond paragraph here."

	chunks := s.Split(text)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	// The paragraph boundary must win; no chunk straddles it.
	if !strings.HasPrefix(chunks[1], "second") {
		t.Errorf("second chunk should start at the paragraph boundary, got %q", chunks[1])
	}
}

func TestSplit_Coverage(t *testing.T) {
	// Concatenating chunks with overlap regions removed reconstructs the text.
	s := NewSplitter(WithChunkSize(50), WithOverlap(10))
	text := "Anna lives in Berlin. Susan lives in Hamburg.\nThey meet every summer near the lake.\n\nThe water is cold in June. Nobody swims before July arrives for real."

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	rebuilt := chunks[0]
	for i := 1; i < len(chunks); i++ {
		rebuilt += chunks[i][overlapLen(chunks[i-1], chunks[i]):]
	}
	if rebuilt != text {
		t.Errorf("reconstruction mismatch:\nwant %q\ngot  %q", text, rebuilt)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	s := NewSplitter(WithChunkSize(60), WithOverlap(12))
	text := strings.Repeat("alpha beta gamma delta epsilon zeta.\n", 30)

	first := s.Split(text)
	second := s.Split(text)
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

// overlapLen finds the longest suffix of prev that prefixes next.
func overlapLen(prev, next string) int {
	max := len(prev)
	if len(next) < max {
		max = len(next)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(prev, next[:n]) {
			return n
		}
	}
	return 0
}
