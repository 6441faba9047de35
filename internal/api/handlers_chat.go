package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docqa/internal/chat"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.orch.NewSession()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id":  sess.ID,
		"suggestions": s.orch.DefaultDocument().Suggestions(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.orch.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"exchange":   sess.Exchange(),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	multipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
	var err error
	if multipart {
		err = r.ParseMultipartForm(32 << 20)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	if multipart {
		defer r.MultipartForm.RemoveAll()
	}

	req := chat.Request{
		SessionID: r.FormValue("session_id"),
		Query:     r.FormValue("question"),
	}

	if multipart {
		upload, status, err := s.readUpload(r)
		if err != nil {
			jsonError(w, err.Error(), status)
			return
		}
		req.Upload = upload
	}

	ex, err := s.orch.Handle(r.Context(), req)
	switch {
	case errors.Is(err, chat.ErrUnknownSession):
		jsonError(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, chat.ErrEmptyQuestion), errors.Is(err, chat.ErrQuestionTooLong):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := chat.Render(ex.Log)
	if err != nil {
		s.log.Warn("render exchange failed", "session_id", ex.SessionID, "error", err)
	}

	resp := map[string]any{
		"session_id": ex.SessionID,
		"language":   ex.Language,
		"outcome":    ex.Outcome,
		"reply":      ex.Reply,
		"html":       html,
		"exchange":   ex.Log,
	}
	if req.Upload != nil {
		resp["suggestions"] = ex.Suggestions
	}
	writeJSON(w, http.StatusOK, resp)
}

// readUpload returns the optional "file" part. A missing file is not an
// error.
func (s *Server) readUpload(r *http.Request) (*chat.Upload, int, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid file: %w", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return &chat.Upload{Filename: filename, Data: data}, 0, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
