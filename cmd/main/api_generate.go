package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/CTAG07/wordchain/pkg/markov"
)

// maxTrainBytes caps the body accepted by /api/train.
const maxTrainBytes = 64 << 20

// GenerateResponse is the body returned by /api/generate.
type GenerateResponse struct {
	RequestId string   `json:"request_id"`
	Policy    string   `json:"policy"`
	Tokens    []string `json:"tokens"`
	Text      string   `json:"text"`
	Restarts  int      `json:"restarts"`
	Truncated bool     `json:"truncated"`
}

// StatsResponse is the body returned by /api/stats, /api/train, /api/rebuild
// and /api/prune.
type StatsResponse struct {
	Tokens      int `json:"tokens"`
	Occurrences int `json:"occurrences"`
	Transitions int `json:"transitions"`
	Edges       int `json:"edges"`
	DeadEnds    int `json:"dead_ends"`
	MaxFanOut   int `json:"max_fan_out"`
}

type PruneRequest struct {
	MinFreq int `json:"minFreq"`
}

func newStatsResponse(graph *markov.WordGraph) StatsResponse {
	stats := graph.Stats()
	return StatsResponse{
		Tokens:      stats.Tokens,
		Occurrences: stats.Occurrences,
		Transitions: stats.Transitions,
		Edges:       stats.Edges,
		DeadEnds:    stats.DeadEnds,
		MaxFanOut:   stats.MaxFanOut,
	}
}

// generateRequest is a parsed and validated generation query.
type generateRequest struct {
	seed   string
	k      int
	policy markov.Policy
}

// parseGenerateRequest reads seed, k and policy from the query string, falling
// back to the configured defaults for k and policy.
func (s *Server) parseGenerateRequest(r *http.Request) (generateRequest, error) {
	q := r.URL.Query()
	req := generateRequest{
		seed: q.Get("seed"),
		k:    s.config.Generation.DefaultLength,
	}
	if req.seed == "" {
		return req, errors.New("seed is required")
	}

	if raw := q.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid k %q", raw)
		}
		if k < 0 {
			return req, markov.ErrNegativeLength
		}
		req.k = k
	}

	name := q.Get("policy")
	if name == "" {
		name = s.config.Generation.DefaultPolicy
	}
	policy, err := markov.ParsePolicy(name)
	if err != nil {
		return req, err
	}
	req.policy = policy
	return req, nil
}

// handleGenerate runs one generation and returns it as JSON.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.parseGenerateRequest(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.gen.Generate(r.Context(), req.seed, req.k, req.policy, s.config.Generation.generateOptions()...)
	if err != nil {
		if errors.Is(err, markov.ErrSeedNotFound) {
			s.respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("Generation failed", "seed", req.seed, "error", err)
		s.respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Generation failed: %v", err))
		return
	}

	s.respondWithJSON(w, http.StatusOK, GenerateResponse{
		RequestId: requestId(r.Context()),
		Policy:    res.Policy.String(),
		Tokens:    res.Tokens,
		Text:      res.String(),
		Restarts:  res.Restarts,
		Truncated: res.Truncated,
	})
}

// handleGenerateStream writes the generated tokens one per line, flushing
// after each so clients see the walk as it happens.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.parseGenerateRequest(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, err := s.gen.GenerateStream(ctx, req.seed, req.k, req.policy, s.config.Generation.generateOptions()...)
	if err != nil {
		if errors.Is(err, markov.ErrSeedNotFound) {
			s.respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Generation failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for word := range stream {
		if _, err = io.WriteString(w, word+"\n"); err != nil {
			s.logger.Debug("Client went away during stream", "request_id", requestId(r.Context()), "error", err)
			return // cancel stops the walk
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// handleTrain replaces the graph with one built from the request body.
func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	graph, err := s.gen.Train(r.Context(), http.MaxBytesReader(w, r.Body, maxTrainBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondWithError(w, http.StatusRequestEntityTooLarge, "Corpus too large")
			return
		}
		s.logger.Error("Failed to train from request body", "error", err)
		s.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Training failed: %v", err))
		return
	}
	if minFreq := s.config.Generation.PruneMinFreq; minFreq > 0 {
		graph = s.gen.Prune(r.Context(), minFreq)
	}
	s.respondWithJSON(w, http.StatusOK, newStatsResponse(graph))
}

// handleRebuild replaces the graph with one built from the corpus store.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.store == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, "Corpus store not configured")
		return
	}

	graph, err := s.gen.TrainFrom(r.Context(), s.store.Source())
	if err != nil {
		s.logger.Error("Failed to rebuild from corpus store", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Rebuild failed: %v", err))
		return
	}
	if minFreq := s.config.Generation.PruneMinFreq; minFreq > 0 {
		graph = s.gen.Prune(r.Context(), minFreq)
	}
	s.respondWithJSON(w, http.StatusOK, newStatsResponse(graph))
}

// handlePrune drops rare transitions from the current graph.
func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req PruneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.MinFreq < 0 {
		s.respondWithError(w, http.StatusBadRequest, "minFreq must not be negative")
		return
	}
	s.respondWithJSON(w, http.StatusOK, newStatsResponse(s.gen.Prune(r.Context(), req.MinFreq)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.respondWithJSON(w, http.StatusOK, newStatsResponse(s.gen.Graph()))
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

