// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/papapumpkin/triage/internal/engine"
	"github.com/papapumpkin/triage/internal/task"
)

// API routes. Both are POST-only and accept a JSON array of tasks.
const (
	AnalyzePath = "/api/tasks/analyze/"
	SuggestPath = "/api/tasks/suggest/"
	HealthPath  = "/healthz"
)

// Defaults used when Config leaves a value unset.
const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultSuggestCount = 3
	readHeaderTimeout   = 10 * time.Second
)

// Config holds optional server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
	// MaxBodyBytes caps request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// SuggestCount is the default n for the suggest route. Zero uses
	// DefaultSuggestCount.
	SuggestCount int
	// Now supplies the reference instant when a request has no ?now=.
	// Nil uses time.Now.
	Now func() time.Time
}

// Server serves the analysis API.
type Server struct {
	analyzer     *engine.Analyzer
	logger       *slog.Logger
	addr         string
	maxBodyBytes int64
	suggestCount int
	now          func() time.Time

	srv *http.Server
	ln  net.Listener
}

// New creates a Server. A nil logger discards request logs.
func New(analyzer *engine.Analyzer, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		analyzer:     analyzer,
		logger:       logger,
		addr:         cfg.Addr,
		maxBodyBytes: cfg.MaxBodyBytes,
		suggestCount: cfg.SuggestCount,
		now:          cfg.Now,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	if s.suggestCount <= 0 {
		s.suggestCount = DefaultSuggestCount
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(AnalyzePath+"{$}", s.handleAnalyze)
	mux.HandleFunc(AnalyzePath[:len(AnalyzePath)-1], s.handleAnalyze)
	mux.HandleFunc(SuggestPath+"{$}", s.handleSuggest)
	mux.HandleFunc(SuggestPath[:len(SuggestPath)-1], s.handleSuggest)
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.logRequests(mux)
}

// Start listens on the configured address and serves in the background.
// It returns once the listener is bound.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("serve failed", "error", err)
		}
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listener address, useful for tests with port 0.
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	tasks, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	n := s.suggestCount
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid n %q: want a positive integer", raw))
			return
		}
		n = v
	}
	tasks, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Suggest(tasks, n))
}

// analyze runs the shared request pipeline. It writes the error response
// itself and reports false when the request cannot be served.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) ([]engine.AnalyzedTask, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
		return nil, false
	}

	now, err := s.referenceTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return nil, false
	}

	tasks, err := s.analyzer.AnalyzeJSON(body, now)
	if err != nil {
		if errors.Is(err, task.ErrMalformedInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return tasks, true
}

// referenceTime returns the ?now= date at midnight UTC, or the server clock.
func (s *Server) referenceTime(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return s.now(), nil
	}
	d, err := task.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid now: %w", err)
	}
	return d.Time(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"encoding response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
