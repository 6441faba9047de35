package docstore

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxSuggestions caps the suggested-question list.
	MaxSuggestions = 6

	suggestMinLineRunes = 80
	suggestPrefixRunes  = 60
)

// Suggest derives suggested questions from context text. Every line longer
// than 80 runes without a question mark becomes "Why <first 60 runes>?".
// Duplicates are dropped, first-seen order kept.
func Suggest(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if utf8.RuneCountInString(line) <= suggestMinLineRunes || strings.Contains(line, "?") {
			continue
		}
		q := "Why " + string([]rune(line)[:suggestPrefixRunes]) + "?"
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
