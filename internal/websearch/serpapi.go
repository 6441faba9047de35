// Package websearch provides the web-snippet fallback used when the
// document cannot answer a question.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// MaxResults caps the organic results taken from one search.
const MaxResults = 3

// Searcher returns text snippets for a query. An entry may be empty when
// the provider returned a result without a snippet.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// SerpClient queries the SerpAPI search endpoint.
type SerpClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewSerpClient(endpoint, apiKey string, timeout time.Duration) *SerpClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SerpClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search returns the snippets of up to MaxResults organic results.
// Transport failures, non-2xx responses and malformed bodies are errors.
func (c *SerpClient) Search(ctx context.Context, query string) ([]string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("serpapi returned invalid json")
	}

	results := gjson.GetBytes(body, "organic_results")
	if !results.IsArray() {
		return nil, nil
	}
	var snippets []string
	for _, r := range results.Array() {
		if len(snippets) == MaxResults {
			break
		}
		snippets = append(snippets, r.Get("snippet").String())
	}
	return snippets, nil
}

// Close releases idle connections.
func (c *SerpClient) Close() {
	c.httpClient.CloseIdleConnections()
}
