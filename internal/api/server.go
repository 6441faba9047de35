package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docqa/internal/chat"
	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/metrics"
	"github.com/dgallion1/docqa/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server for docqa.
type Server struct {
	router chi.Router
	orch   *chat.Orchestrator
	hf     *models.HFClient
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. hf may be nil, in
// which case model stats are reported as unavailable.
func NewServer(orch *chat.Orchestrator, hf *models.HFClient, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orch: orch,
		hf:   hf,
		log:  log,
		cfg:  cfg,
	}
	metrics.Register()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.DocqaAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocqaAPIKey, s.log))
		}

		r.Post("/api/sessions", s.handleCreateSession)
		r.Get("/api/sessions/{sessionID}", s.handleGetSession)
		r.Post("/api/ask", s.handleAsk)
		r.Get("/api/suggestions", s.handleSuggestions)
		r.Get("/api/stats/models", s.handleModelStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"document_loaded": !s.orch.DefaultDocument().Empty(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
