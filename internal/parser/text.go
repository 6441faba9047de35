package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain text files. Each blank-line separated
// paragraph becomes one page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pages []Page
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			pages = appendPage(pages, current.String())
			current.Reset()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return appendPage(pages, current.String()), nil
}
