package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "SERPAPI_KEY", "HF_API_TOKEN", "WEB_SEARCH_TIMEOUT", "REWRITE_MAX_LENGTH", "DOCUMENT_DOMAIN"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port %q, got %q", "8090", cfg.Port)
	}
	if cfg.WebSearchTimeout != 5*time.Second {
		t.Errorf("expected web search timeout 5s, got %s", cfg.WebSearchTimeout)
	}
	if cfg.RewriteMaxLength != 50 {
		t.Errorf("expected rewrite max length 50, got %d", cfg.RewriteMaxLength)
	}
	if cfg.DocumentDomain != "Sudan" {
		t.Errorf("expected domain %q, got %q", "Sudan", cfg.DocumentDomain)
	}
	if cfg.WebSearchConfigured() {
		t.Error("expected web search to be unconfigured without SERPAPI_KEY")
	}
}

func TestLoad_ClampsNonPositive(t *testing.T) {
	t.Setenv("REWRITE_MAX_LENGTH", "-3")
	t.Setenv("WEB_SEARCH_TIMEOUT", "0s")
	t.Setenv("SESSION_CAPACITY", "0")

	cfg := Load()
	if cfg.RewriteMaxLength != 50 {
		t.Errorf("expected clamped rewrite max length 50, got %d", cfg.RewriteMaxLength)
	}
	if cfg.WebSearchTimeout != 5*time.Second {
		t.Errorf("expected clamped timeout 5s, got %s", cfg.WebSearchTimeout)
	}
	if cfg.SessionCapacity != 1024 {
		t.Errorf("expected clamped capacity 1024, got %d", cfg.SessionCapacity)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "lots")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "maybe")

	cfg := Load()
	if cfg.MaxUploadBytes != 20971520 {
		t.Errorf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback to default to true")
	}
}

func TestValidate_RequiresModelToken(t *testing.T) {
	cfg := Config{DocumentPath: "doc.pdf"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error without HF_API_TOKEN")
	}
	cfg.HFAPIToken = "hf_test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWebSearchConfigured(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "secret")
	if !Load().WebSearchConfigured() {
		t.Error("expected web search to be configured")
	}
}
