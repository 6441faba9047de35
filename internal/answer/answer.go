// Package answer grounds a question in document text: it rewrites the
// question, runs extractive QA over the text and gathers supporting
// sentences for accepted answers.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/docqa/internal/metrics"
)

const (
	// AcceptThreshold is the minimum QA score for an answer to be used.
	// Scores strictly below it are rejected.
	AcceptThreshold = 0.25

	// MaxRelated caps the supporting sentences returned with an answer.
	MaxRelated = 3
)

// Rewriter is a deterministic text-generation capability.
type Rewriter interface {
	Rewrite(ctx context.Context, prompt string, maxLength int) (string, error)
}

// QuestionAnswerer is an extractive QA capability returning an answer span
// and a confidence score in [0,1].
type QuestionAnswerer interface {
	ExtractAnswer(ctx context.Context, question, passage string) (string, float64, error)
}

// Result is the outcome of one extraction. Rejected results carry only
// the score that caused the rejection.
type Result struct {
	Accepted bool     `json:"accepted"`
	Answer   string   `json:"answer,omitempty"`
	Score    float64  `json:"score"`
	Related  []string `json:"related,omitempty"`
}

// Normalizer rewrites raw questions into clearer ones.
type Normalizer struct {
	rewriter  Rewriter
	domain    string
	maxLength int
}

func NewNormalizer(rw Rewriter, domain string, maxLength int) *Normalizer {
	return &Normalizer{rewriter: rw, domain: domain, maxLength: maxLength}
}

// Prompt wraps query in the rewrite instruction.
func (n *Normalizer) Prompt(query string) string {
	return fmt.Sprintf("Rewrite this %s related question clearly:\n%s", n.domain, query)
}

// Rewrite returns the first generated candidate verbatim. Capability
// failures are returned to the caller unchanged.
func (n *Normalizer) Rewrite(ctx context.Context, query string) (string, error) {
	return n.rewriter.Rewrite(ctx, n.Prompt(query), n.maxLength)
}

// Extractor answers questions from context text.
type Extractor struct {
	normalizer *Normalizer
	qa         QuestionAnswerer
}

func NewExtractor(n *Normalizer, qa QuestionAnswerer) *Extractor {
	return &Extractor{normalizer: n, qa: qa}
}

// Extract rewrites query, runs QA against passage and applies the
// acceptance threshold. An empty passage is still sent to the QA
// capability.
func (e *Extractor) Extract(ctx context.Context, query, passage string) (Result, error) {
	question, err := e.normalizer.Rewrite(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("rewrite question: %w", err)
	}

	span, score, err := e.qa.ExtractAnswer(ctx, question, passage)
	if err != nil {
		return Result{}, fmt.Errorf("extract answer: %w", err)
	}
	metrics.ObserveAnswerScore(score)
	if score < AcceptThreshold {
		return Result{Score: score}, nil
	}
	return Result{
		Accepted: true,
		Answer:   span,
		Score:    score,
		Related:  RelatedSentences(passage, span, MaxRelated),
	}, nil
}

// RelatedSentences splits passage on periods and returns up to limit
// trimmed fragments containing span, case-insensitively, in document
// order. Abbreviations are not special-cased.
func RelatedSentences(passage, span string, limit int) []string {
	needle := strings.ToLower(span)
	var out []string
	for _, s := range strings.Split(passage, ".") {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(s), needle) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
