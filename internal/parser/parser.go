package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Page is one page, or page-equivalent block, of extracted text.
type Page struct {
	Number int
	Text   string
}

// Parser converts raw document bytes into ordered pages.
type Parser interface {
	Parse(r io.Reader, filename string) ([]Page, error)
}

// SupportedExtensions lists file extensions this service can answer from.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune parser construction.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// appendPage numbers and appends text, skipping blank blocks.
func appendPage(pages []Page, text string) []Page {
	text = strings.TrimSpace(text)
	if text == "" {
		return pages
	}
	return append(pages, Page{Number: len(pages) + 1, Text: text})
}
