package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docqa/internal/answer"
	"github.com/dgallion1/docqa/internal/api"
	"github.com/dgallion1/docqa/internal/chat"
	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/docstore"
	"github.com/dgallion1/docqa/internal/metrics"
	"github.com/dgallion1/docqa/internal/models"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/websearch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Default document. A missing or unreadable file leaves the service
	// running with no knowledge; every answer then falls back.
	docs := docstore.NewStore(parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}, log)
	doc := docs.Load(cfg.DocumentPath)
	metrics.ObserveDocument(doc.Empty())
	if doc.Empty() {
		log.Warn("default document has no text", "path", cfg.DocumentPath)
	}

	// Initialize clients.
	hf := models.NewHFClient(models.Options{
		BaseURL:      cfg.HFBaseURL,
		Token:        cfg.HFAPIToken,
		RewriteModel: cfg.RewriteModel,
		QAModel:      cfg.QAModel,
		Timeout:      cfg.ModelTimeout,
	})

	var searcher websearch.Searcher
	var serp *websearch.SerpClient
	if cfg.WebSearchConfigured() {
		serp = websearch.NewSerpClient(cfg.SerpAPIURL, cfg.SerpAPIKey, cfg.WebSearchTimeout)
		searcher = serp
	} else {
		log.Info("web search fallback not configured")
	}

	sessions, err := chat.NewSessionStore(cfg.SessionCapacity, cfg.SessionTTL)
	if err != nil {
		log.Error("create session store", "error", err)
		os.Exit(1)
	}

	orch := chat.NewOrchestrator(chat.Deps{
		DefaultDocument:   doc,
		Documents:         docs,
		Extractor:         answer.NewExtractor(answer.NewNormalizer(hf, cfg.DocumentDomain, cfg.RewriteMaxLength), hf),
		Fetcher:           websearch.NewFetcher(searcher, log),
		Sessions:          sessions,
		MaxQuestionLength: cfg.MaxQuestionLength,
	}, log)

	go cleanupSessions(ctx, sessions, cfg.SessionTTL, log)

	// Initialize HTTP server.
	srv := api.NewServer(orch, hf, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.ModelTimeout + cfg.WebSearchTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		hf.Close()
		if serp != nil {
			serp.Close()
		}
	}()

	log.Info("starting docqa", "port", cfg.Port, "document", doc.Source, "web_search", cfg.WebSearchConfigured())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func cleanupSessions(ctx context.Context, sessions *chat.SessionStore, ttl time.Duration, log *slog.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Cleanup(); n > 0 {
				log.Debug("expired sessions removed", "count", n, "remaining", sessions.Len())
			}
		}
	}
}
