// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the assistant over a JSON HTTP API. Each browser
// session is identified by a cookie and owns its own session.State;
// requests within one session are handled one at a time.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"github.com/pdiddy/curioquest/internal/assistant"
	"github.com/pdiddy/curioquest/internal/metrics"
	"github.com/pdiddy/curioquest/internal/session"
	"github.com/pdiddy/curioquest/pkg/types"
)

const (
	defaultAddr           = ":8080"
	defaultCookieName     = "curioquest_session"
	defaultMaxUploadBytes = 64 << 20
)

// Server holds the HTTP surface and its dependencies.
type Server struct {
	svc      *assistant.Service
	sessions *session.Manager
	cfg      types.ServerConfig
	log      *slog.Logger
	version  string
	cache    DocumentCounter
}

// DocumentCounter reports how many extracted documents are cached.
type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
}

// Option configures a Server.
type Option func(*Server)

// WithDocumentCounter reports the text cache size on the health endpoint.
func WithDocumentCounter(c DocumentCounter) Option {
	return func(s *Server) { s.cache = c }
}

// New returns a Server. Zero config fields take their defaults.
func New(svc *assistant.Service, sessions *session.Manager, cfg types.ServerConfig, log *slog.Logger, version string, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{svc: svc, sessions: sessions, cfg: cfg, log: log, version: version}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Routes configures the HTTP routes.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)

	sess := api.NewRoute().Subrouter()
	sess.Use(s.sessionMiddleware)

	sess.HandleFunc("/search", s.searchHandler).Methods(http.MethodPost)
	sess.HandleFunc("/papers", s.papersHandler).Methods(http.MethodGet)
	sess.HandleFunc("/papers/summary", s.summaryHandler).Methods(http.MethodPost)
	sess.HandleFunc("/papers/translation", s.translationHandler).Methods(http.MethodPost)
	sess.HandleFunc("/papers/citation", s.citationHandler).Methods(http.MethodPost)
	sess.HandleFunc("/chat", s.askHandler).Methods(http.MethodPost)
	sess.HandleFunc("/chat", s.chatHistoryHandler).Methods(http.MethodGet)

	sess.HandleFunc("/upload", s.uploadHandler).Methods(http.MethodPost)
	sess.HandleFunc("/upload/summary", s.uploadSummaryHandler).Methods(http.MethodPost)
	sess.HandleFunc("/upload/translation", s.uploadTranslationHandler).Methods(http.MethodPost)
	sess.HandleFunc("/upload/question", s.uploadQuestionHandler).Methods(http.MethodPost)

	sess.HandleFunc("/session/export", s.exportHandler).Methods(http.MethodGet)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type ctxKey struct{}

func stateFrom(ctx context.Context) *session.State {
	st, _ := ctx.Value(ctxKey{}).(*session.State)
	return st
}

// sessionMiddleware resolves the session cookie, issuing a new one when
// needed, and holds the session's turn for the whole request.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(s.cfg.CookieName); err == nil {
			id = c.Value
		}
		st, created := s.sessions.Get(id)
		if created {
			s.log.Debug("session started", "session", st.ID(), "created_at", st.CreatedAt())
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.CookieName,
				Value:    st.ID(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		release, err := st.Acquire(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err)
			return
		}
		defer release()

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, st)))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start))
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
