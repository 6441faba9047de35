package docstore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docqa/internal/parser"
)

func newTestStore() *Store {
	return NewStore(parser.Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	doc := newTestStore().Load(filepath.Join(t.TempDir(), "nope.pdf"))
	if !doc.Empty() {
		t.Fatalf("expected empty document, got %q", doc.Text)
	}
	if len(doc.Suggestions()) != 0 {
		t.Errorf("expected no suggestions, got %v", doc.Suggestions())
	}
}

func TestLoad_CorruptPDFIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if doc := newTestStore().Load(path); !doc.Empty() {
		t.Fatalf("expected empty document, got %q", doc.Text)
	}
}

func TestLoadReader_UnsupportedExtensionIsEmpty(t *testing.T) {
	doc := newTestStore().LoadReader(strings.NewReader("hello"), "sheet.xlsx")
	if !doc.Empty() {
		t.Fatalf("expected empty document, got %q", doc.Text)
	}
	if doc.Source != "sheet.xlsx" {
		t.Errorf("expected source %q, got %q", "sheet.xlsx", doc.Source)
	}
}

func TestLoad_TextFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	body := "Sudan Gained Independence.\nIt Was 1956.\n\n\n\nSecond Page."
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := newTestStore().Load(path)
	want := "sudan gained independence.\nit was 1956.\nsecond page."
	if doc.Text != want {
		t.Errorf("expected %q, got %q", want, doc.Text)
	}
	if doc.Source != path {
		t.Errorf("expected source %q, got %q", path, doc.Source)
	}
}

func TestNormalize_CollapsesNewlinesAndDropsBlankPages(t *testing.T) {
	pages := []parser.Page{
		{Number: 1, Text: "Line A\n\n\nLine B"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "LINE C"},
	}
	got := Normalize(pages)
	want := "line a\nline b\nline c"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_NoPages(t *testing.T) {
	if got := Normalize(nil); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestDocument_SuggestionsAreCopied(t *testing.T) {
	doc := newTestStore().LoadReader(strings.NewReader(strings.Repeat("x", 90)), "long.txt")
	s := doc.Suggestions()
	if len(s) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(s))
	}
	s[0] = "mutated"
	if doc.Suggestions()[0] == "mutated" {
		t.Error("expected Suggestions to return a copy")
	}
}
