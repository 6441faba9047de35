package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsStartPages(t *testing.T) {
	input := `Preface line.

# Background

Sudan gained independence in 1956.

## Conflict

Fighting began in April 2023.

- displacement
- famine
`
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d: %+v", len(pages), pages)
	}
	if pages[0].Text != "Preface line." {
		t.Errorf("expected preface page, got %q", pages[0].Text)
	}
	if pages[1].Text != "Background\nSudan gained independence in 1956." {
		t.Errorf("unexpected background page %q", pages[1].Text)
	}
	for _, want := range []string{"Conflict", "Fighting began in April 2023.", "displacement", "famine"} {
		if !strings.Contains(pages[2].Text, want) {
			t.Errorf("expected conflict page to contain %q, got %q", want, pages[2].Text)
		}
	}
}

func TestMarkdownParser_NoDuplicateParagraphText(t *testing.T) {
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader("Just some *plain* text."), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Text != "Just some plain text." {
		t.Errorf("expected %q, got %q", "Just some plain text.", pages[0].Text)
	}
}

func TestMarkdownParser_CodeBlockLines(t *testing.T) {
	input := "Intro.\n\n```\nGET /api/ask\nPOST /api/ask\n```\n"
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if !strings.Contains(pages[0].Text, "GET /api/ask\nPOST /api/ask") {
		t.Errorf("expected code lines preserved, got %q", pages[0].Text)
	}
}
