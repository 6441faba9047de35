// Package docstore loads documents into the normalized context text the
// answer pipeline reads from.
package docstore

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/docqa/internal/parser"
)

// Document is the normalized text of one source. The zero value is the
// empty document: no knowledge available.
type Document struct {
	Source string
	Text   string

	suggestions []string
}

// Empty reports whether the document carries no text.
func (d Document) Empty() bool {
	return d.Text == ""
}

// Suggestions returns the suggested questions derived at load time.
func (d Document) Suggestions() []string {
	out := make([]string, len(d.suggestions))
	copy(out, d.suggestions)
	return out
}

// Store turns files and uploads into Documents.
type Store struct {
	opts parser.Options
	log  *slog.Logger
}

func NewStore(opts parser.Options, log *slog.Logger) *Store {
	return &Store{opts: opts, log: log}
}

// Load reads the document at path. Failures yield an empty Document.
func (s *Store) Load(path string) Document {
	f, err := os.Open(path)
	if err != nil {
		s.log.Warn("document unavailable", "source", path, "error", err)
		return Document{Source: path}
	}
	defer f.Close()
	doc := s.LoadReader(f, path)
	doc.Source = path
	return doc
}

// LoadReader reads an uploaded document; filename selects the parser.
// Failures yield an empty Document.
func (s *Store) LoadReader(r io.Reader, filename string) Document {
	source := filepath.Base(filename)
	doc := Document{Source: source}

	p, err := parser.ForFile(filename, s.opts)
	if err != nil {
		s.log.Warn("document unavailable", "source", source, "error", err)
		return doc
	}
	pages, err := p.Parse(r, filename)
	if err != nil {
		s.log.Warn("document unavailable", "source", source, "error", err)
		return doc
	}

	doc.Text = Normalize(pages)
	doc.suggestions = Suggest(doc.Text)
	s.log.Info("document loaded", "source", source, "pages", len(pages), "chars", len(doc.Text))
	return doc
}

// LoadBytes is LoadReader for in-memory uploads.
func (s *Store) LoadBytes(data []byte, filename string) Document {
	return s.LoadReader(bytes.NewReader(data), filename)
}

var newlineRun = regexp.MustCompile(`\n+`)

// Normalize joins page texts in order with a single newline, collapsing
// newline runs inside each page, and lowercases the result. Pages without
// text are dropped.
func Normalize(pages []parser.Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		parts = append(parts, newlineRun.ReplaceAllString(p.Text, "\n"))
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}
