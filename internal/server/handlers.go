// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/curioquest/internal/assistant"
	"github.com/pdiddy/curioquest/internal/session"
	"github.com/pdiddy/curioquest/pkg/types"
)

type searchRequest struct {
	Keyword string `json:"keyword"`
}

type searchResponse struct {
	Keyword  string              `json:"keyword"`
	Results  []types.PaperRecord `json:"results"`
	Selected string              `json:"selected,omitempty"`
}

type paperRequest struct {
	Title    string `json:"title"`
	Length   string `json:"length,omitempty"`
	Language string `json:"language,omitempty"`
	Question string `json:"question,omitempty"`
}

type summaryResponse struct {
	Title   string              `json:"title"`
	Length  types.SummaryLength `json:"length"`
	Summary string              `json:"summary"`
}

type translationResponse struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Translation string `json:"translation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   s.version,
		"sessions":  s.sessions.Len(),
	}
	if s.cache != nil {
		n, err := s.cache.Count(r.Context())
		if err != nil {
			s.log.Warn("counting cached documents", "error", err)
		} else {
			body["cached_documents"] = n
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	records, err := s.svc.Search(r.Context(), stateFrom(r.Context()), req.Keyword)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Keyword: req.Keyword, Results: records})
}

func (s *Server) papersHandler(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	keyword, records := st.Results()
	if records == nil {
		records = []types.PaperRecord{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Keyword: keyword, Results: records, Selected: st.Selected()})
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	length, err := types.ParseSummaryLength(req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := s.svc.Summarize(r.Context(), stateFrom(r.Context()), req.Title, length)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Title: req.Title, Length: length, Summary: summary})
}

func (s *Server) translationHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := s.svc.Translate(r.Context(), stateFrom(r.Context()), req.Title, req.Language)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, translationResponse{Title: req.Title, Language: req.Language, Translation: out})
}

func (s *Server) citationHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := s.svc.Cite(stateFrom(r.Context()), req.Title)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) askHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	turn, err := s.svc.Ask(r.Context(), stateFrom(r.Context()), req.Title, req.Question)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) chatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	chat := stateFrom(r.Context()).Chat()
	if chat == nil {
		chat = []types.ChatTurn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat": chat})
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", assistant.ErrNoUpload, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	u, err := s.svc.Upload(r.Context(), stateFrom(r.Context()), header.Filename, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) uploadSummaryHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	length, err := types.ParseSummaryLength(req.Length)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := s.svc.SummarizeUpload(r.Context(), stateFrom(r.Context()), length)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Title: session.UploadTitle, Length: length, Summary: summary})
}

func (s *Server) uploadTranslationHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := s.svc.TranslateUpload(r.Context(), stateFrom(r.Context()), req.Language)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, translationResponse{Title: session.UploadTitle, Language: req.Language, Translation: out})
}

func (s *Server) uploadQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var req paperRequest
	if !decode(w, r, &req) {
		return
	}
	turn, err := s.svc.AskUpload(r.Context(), stateFrom(r.Context()), req.Question)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if err := stateFrom(r.Context()).ExportYAML(w); err != nil {
		s.log.Error("exporting session", "error", err)
	}
}

// fail maps err to a status: user errors are 400, a cancelled request is
// 503, everything else is a failing dependency (502).
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case assistant.IsUserError(err):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status != http.StatusBadRequest {
		s.log.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
