package api

import (
	"net/http"
)

func (s *Server) handleModelStats(w http.ResponseWriter, r *http.Request) {
	if s.hf == nil {
		jsonError(w, "model stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rewrite": map[string]any{
			"model": s.hf.RewriteModel(),
			"stats": s.hf.RewriteStats.Snapshot(),
		},
		"qa": map[string]any{
			"model": s.hf.QAModel(),
			"stats": s.hf.QAStats.Snapshot(),
		},
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": s.orch.DefaultDocument().Suggestions(),
	})
}
