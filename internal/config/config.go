package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth on /api routes.
	DocqaAPIKey string

	// Default document
	DocumentPath   string
	DocumentDomain string

	// Hugging Face inference
	HFAPIToken       string
	HFBaseURL        string
	RewriteModel     string
	QAModel          string
	RewriteMaxLength int
	ModelTimeout     time.Duration

	// Web search fallback. Empty key means "not configured".
	SerpAPIKey       string
	SerpAPIURL       string
	WebSearchTimeout time.Duration

	// Request limits
	MaxUploadBytes    int64
	MaxQuestionLength int

	// Sessions
	SessionCapacity int
	SessionTTL      time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocqaAPIKey: os.Getenv("DOCQA_API_KEY"),

		DocumentPath:   envOr("DOCUMENT_PATH", "Sudan_crises_updated.pdf"),
		DocumentDomain: envOr("DOCUMENT_DOMAIN", "Sudan"),

		HFAPIToken:       os.Getenv("HF_API_TOKEN"),
		HFBaseURL:        envOr("HF_BASE_URL", "https://api-inference.huggingface.co/models"),
		RewriteModel:     envOr("REWRITE_MODEL", "facebook/bart-large-cnn"),
		QAModel:          envOr("QA_MODEL", "distilbert-base-uncased-distilled-squad"),
		RewriteMaxLength: envInt("REWRITE_MAX_LENGTH", 50),
		ModelTimeout:     envDuration("MODEL_TIMEOUT", 60*time.Second),

		SerpAPIKey:       os.Getenv("SERPAPI_KEY"),
		SerpAPIURL:       envOr("SERPAPI_URL", "https://serpapi.com/search.json"),
		WebSearchTimeout: envDuration("WEB_SEARCH_TIMEOUT", 5*time.Second),

		MaxUploadBytes:    envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB
		MaxQuestionLength: envInt("MAX_QUESTION_LENGTH", 1000),

		SessionCapacity: envInt("SESSION_CAPACITY", 1024),
		SessionTTL:      envDuration("SESSION_TTL", 2*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.RewriteMaxLength <= 0 {
		cfg.RewriteMaxLength = 50
	}
	if cfg.ModelTimeout <= 0 {
		cfg.ModelTimeout = 60 * time.Second
	}
	if cfg.WebSearchTimeout <= 0 {
		cfg.WebSearchTimeout = 5 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.MaxQuestionLength <= 0 {
		cfg.MaxQuestionLength = 1000
	}
	if cfg.SessionCapacity <= 0 {
		cfg.SessionCapacity = 1024
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.HFAPIToken == "" {
		return fmt.Errorf("HF_API_TOKEN is required")
	}
	if c.DocumentPath == "" {
		return fmt.Errorf("DOCUMENT_PATH is required")
	}
	return nil
}

// WebSearchConfigured reports whether the fallback fetcher has a credential.
func (c Config) WebSearchConfigured() bool {
	return c.SerpAPIKey != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
