package chunker

import (
	"strings"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(WithChunkSize(40), WithOverlap(5))
	doc := &domain.Document{
		OriginalFilename: "report.pdf",
		Pages: []domain.Page{
			{Number: 1, Text: "Intro text on the first page of the uploaded report."},
			{Number: 2, Text: ""},
			{Number: 3, Text: "Closing remarks."},
		},
	}

	chunks := p.Process(doc)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
		if c.ID == "" {
			t.Errorf("chunk %d has empty ID", i)
		}
	}

	last := chunks[len(chunks)-1]
	if last.Source != "report.pdf p.3" {
		t.Errorf("expected page 3 locator, got %q", last.Source)
	}
	for _, c := range chunks[:len(chunks)-1] {
		if !strings.HasPrefix(c.Source, "report.pdf p.1") {
			t.Errorf("expected page 1 locator, got %q", c.Source)
		}
	}
}

func TestProcessor_EmptyDocument(t *testing.T) {
	p := NewProcessor()
	chunks := p.Process(&domain.Document{OriginalFilename: "empty.txt"})
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestProcessor_WhitespacePages(t *testing.T) {
	p := NewProcessor()
	chunks := p.Process(&domain.Document{
		OriginalFilename: "blank.pdf",
		Pages: []domain.Page{
			{Number: 1, Text: "   \n\n  "},
			{Number: 2, Text: "\t"},
		},
	})
	if len(chunks) != 0 {
		t.Errorf("expected no chunks from whitespace pages, got %d", len(chunks))
	}
}

func TestPageLocator(t *testing.T) {
	if got := PageLocator("a.pdf", 2); got != "a.pdf p.2" {
		t.Errorf("unexpected locator %q", got)
	}
}
