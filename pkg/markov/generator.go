package markov

import (
	"io"
	"log/slog"
	"sync/atomic"
)

// Generator is the main entry point for interacting with the library. It
// holds a tokenizer and the most recently trained WordGraph. Training swaps
// the graph atomically, so Generate may be called from any number of
// goroutines while a rebuild is in progress.
type Generator struct {
	tokenizer Tokenizer
	graph     atomic.Pointer[WordGraph]
	logger    *slog.Logger
}

// NewGenerator creates a Generator that tokenizes with tokenizer. A nil
// tokenizer selects NewDefaultTokenizer(). Until Train succeeds the Generator
// serves an empty graph, on which every seed is unknown.
func NewGenerator(tokenizer Tokenizer) *Generator {
	if tokenizer == nil {
		tokenizer = NewDefaultTokenizer()
	}
	return &Generator{
		tokenizer: tokenizer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
// Providing a `log/slog.Logger` will enable logging for training and generation.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Tokenizer returns the tokenizer used for training and seed normalization.
func (g *Generator) Tokenizer() Tokenizer { return g.tokenizer }

// Graph returns the current graph. It never returns nil.
func (g *Generator) Graph() *WordGraph {
	if graph := g.graph.Load(); graph != nil {
		return graph
	}
	return emptyGraph
}
