package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/google/uuid"
)

type ctxKey int

const requestIdKey ctxKey = iota

// Server holds the dependencies for the HTTP API.
type Server struct {
	config *Config
	logger *slog.Logger
	gen    *markov.Generator
	store  *corpus.Store // nil when running without a database
	mux    *http.ServeMux
}

// NewServer creates a Server and registers its routes. store may be nil, in
// which case rebuilding from the corpus store is unavailable.
func NewServer(config *Config, logger *slog.Logger, gen *markov.Generator, store *corpus.Store) *Server {
	s := &Server{
		config: config,
		logger: logger,
		gen:    gen,
		store:  store,
		mux:    http.NewServeMux(),
	}
	s.RegisterRoutes(s.mux)
	return s
}

// RegisterRoutes sets up the routing for all /api endpoints.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealthCheck)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/generate/stream", s.handleGenerateStream)
	mux.HandleFunc("/api/train", s.handleTrain)
	mux.HandleFunc("/api/rebuild", s.handleRebuild)
	mux.HandleFunc("/api/prune", s.handlePrune)
	mux.HandleFunc("/api/stats", s.handleStats)
}

// Handler returns the API handler with request IDs and access logging applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestId(s.mux)
}

// withRequestId tags every request with a fresh id, echoed in the X-Request-Id
// header, and logs it once the request completes.
func (s *Server) withRequestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIdKey, id)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		s.logger.DebugContext(ctx, "Request handled",
			slog.String("request_id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func requestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}
