package websearch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dgallion1/docqa/internal/metrics"
)

const (
	MsgNotConfigured = "Answer not found in PDF and Web fetch not configured."
	MsgNoResults     = "No relevant info found online."
	MsgFetchError    = "Error fetching from web."
)

// Fetcher turns search results into a reply. It never fails: every
// problem maps to one of the fixed messages.
type Fetcher struct {
	searcher Searcher
	log      *slog.Logger
}

// NewFetcher returns a Fetcher. A nil searcher means web search is not
// configured and no request is ever made.
func NewFetcher(searcher Searcher, log *slog.Logger) *Fetcher {
	return &Fetcher{searcher: searcher, log: log.With("component", "websearch")}
}

// Configured reports whether a searcher is attached.
func (f *Fetcher) Configured() bool {
	return f.searcher != nil
}

// Fetch returns up to MaxResults snippets joined by newlines.
func (f *Fetcher) Fetch(ctx context.Context, query string) string {
	if f.searcher == nil {
		metrics.ObserveFallback("not_configured")
		return MsgNotConfigured
	}

	snippets, err := f.searcher.Search(ctx, query)
	if err != nil {
		f.log.Warn("web search failed", "error", err)
		metrics.ObserveFallback("error")
		return MsgFetchError
	}
	if len(snippets) == 0 {
		metrics.ObserveFallback("empty")
		return MsgNoResults
	}
	if len(snippets) > MaxResults {
		snippets = snippets[:MaxResults]
	}
	metrics.ObserveFallback("snippets")
	return strings.Join(snippets, "\n")
}
