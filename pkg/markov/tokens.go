package markov

import (
	"context"
	"io"
)

// Tokenizer is an interface that defines the contract for splitting corpus
// text into tokens. This allows graph construction to be independent of the
// specific tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Normalize maps a caller-supplied word (a generation seed) onto the
	// form the stream produces, so it can be looked up in the graph.
	Normalize(word string) string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed. Tokens are never empty.
	Next() (string, error)
}

// Source supplies a corpus as a readable character stream. Implementations
// live in the corpus package; Generator.TrainFrom consumes them.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Open returns a fresh stream over the whole corpus.
	Open(ctx context.Context) (io.ReadCloser, error)
}
