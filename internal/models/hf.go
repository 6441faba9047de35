// Package models talks to hosted model capabilities: text rewriting and
// extractive question answering on the Hugging Face Inference API.
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/docqa/internal/metrics"
)

// HFClient calls the Hugging Face Inference API for the rewrite and
// question-answering capabilities.
type HFClient struct {
	baseURL      string
	token        string
	rewriteModel string
	qaModel      string
	httpClient   *http.Client

	RewriteStats *LatencyStats
	QAStats      *LatencyStats
}

// Options configure an HFClient.
type Options struct {
	BaseURL      string
	Token        string
	RewriteModel string
	QAModel      string
	Timeout      time.Duration
}

func NewHFClient(opts Options) *HFClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &HFClient{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		token:        opts.Token,
		rewriteModel: opts.RewriteModel,
		qaModel:      opts.QAModel,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		RewriteStats: NewLatencyStats(time.Hour),
		QAStats:      NewLatencyStats(time.Hour),
	}
}

type generationParameters struct {
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type generationRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
	Options    inferenceOptions     `json:"options"`
}

type generationCandidate struct {
	GeneratedText string `json:"generated_text"`
	SummaryText   string `json:"summary_text"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaRequest struct {
	Inputs  qaInputs         `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type qaAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Rewrite runs deterministic text generation over prompt and returns the
// first candidate verbatim.
func (c *HFClient) Rewrite(ctx context.Context, prompt string, maxLength int) (string, error) {
	start := time.Now()
	text, err := c.rewrite(ctx, prompt, maxLength)
	c.observe("rewrite", c.RewriteStats, start, err)
	return text, err
}

func (c *HFClient) rewrite(ctx context.Context, prompt string, maxLength int) (string, error) {
	body, err := c.post(ctx, c.rewriteModel, generationRequest{
		Inputs:     prompt,
		Parameters: generationParameters{MaxLength: maxLength, DoSample: false},
		Options:    inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return "", err
	}

	var candidates []generationCandidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		return "", fmt.Errorf("decode rewrite response: %w (raw: %s)", err, truncate(string(body), 200))
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("empty response from %s", c.rewriteModel)
	}
	if candidates[0].GeneratedText != "" {
		return candidates[0].GeneratedText, nil
	}
	return candidates[0].SummaryText, nil
}

// ExtractAnswer finds the answer span for question in passage and the
// model's confidence in it.
func (c *HFClient) ExtractAnswer(ctx context.Context, question, passage string) (string, float64, error) {
	start := time.Now()
	span, score, err := c.extractAnswer(ctx, question, passage)
	c.observe("qa", c.QAStats, start, err)
	return span, score, err
}

func (c *HFClient) extractAnswer(ctx context.Context, question, passage string) (string, float64, error) {
	body, err := c.post(ctx, c.qaModel, qaRequest{
		Inputs:  qaInputs{Question: question, Context: passage},
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return "", 0, err
	}

	// Some deployments wrap the answer in a one-element list.
	trimmed := bytes.TrimSpace(body)
	var ans qaAnswer
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []qaAnswer
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", 0, fmt.Errorf("decode qa response: %w", err)
		}
		if len(list) == 0 {
			return "", 0, fmt.Errorf("empty response from %s", c.qaModel)
		}
		ans = list[0]
	} else if err := json.Unmarshal(trimmed, &ans); err != nil {
		return "", 0, fmt.Errorf("decode qa response: %w (raw: %s)", err, truncate(string(body), 200))
	}
	return ans.Answer, ans.Score, nil
}

func (c *HFClient) post(ctx context.Context, model string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UnavailableError{Model: model, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		ue := &UnavailableError{Model: model, StatusCode: resp.StatusCode, Message: string(respBody)}
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			ue.Message = apiErr.Error
			ue.EstimatedTime = time.Duration(apiErr.EstimatedTime * float64(time.Second))
		}
		return nil, ue
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s status %d: %s", model, resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

func (c *HFClient) observe(capability string, stats *LatencyStats, start time.Time, err error) {
	ms := time.Since(start).Milliseconds()
	if err != nil {
		stats.RecordFailure(ms)
	} else {
		stats.Record(ms)
	}
	metrics.ObserveModelCall(capability, start, err)
}

// RewriteModel returns the configured rewrite model name.
func (c *HFClient) RewriteModel() string { return c.rewriteModel }

// QAModel returns the configured question-answering model name.
func (c *HFClient) QAModel() string { return c.qaModel }

// Close releases resources.
func (c *HFClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// UnavailableError marks a transient upstream failure: rate limiting, a
// model still loading, a server error or an unreachable endpoint.
type UnavailableError struct {
	Model         string
	StatusCode    int
	Message       string
	EstimatedTime time.Duration
}

func (e *UnavailableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s unavailable: %s", e.Model, truncate(e.Message, 200))
	}
	return fmt.Sprintf("%s unavailable (status %d): %s", e.Model, e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
