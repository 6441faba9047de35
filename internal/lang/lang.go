// Package lang labels a question as English, Roman Urdu or Urdu.
package lang

import "strings"

// Tag is the language variety of a query.
type Tag string

const (
	English Tag = "english"
	Roman   Tag = "roman"
	Urdu    Tag = "urdu"
)

// romanCues are Roman Urdu function words. Matching is by substring on the
// lowercased query, so short cues also fire inside English words.
var romanCues = []string{"kya", "kab", "ka", "ki", "ke", "hai", "kyun"}

// Classify applies, in order: any Arabic-block rune is Urdu, any Roman cue
// is Roman, anything else is English.
func Classify(query string) Tag {
	for _, r := range query {
		if r >= '\u0600' && r <= '\u06FF' {
			return Urdu
		}
	}
	lower := strings.ToLower(query)
	for _, cue := range romanCues {
		if strings.Contains(lower, cue) {
			return Roman
		}
	}
	return English
}
