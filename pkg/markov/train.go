package markov

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// cancelCheckInterval is how many tokens Build reads between context checks.
const cancelCheckInterval = 1 << 14

// Build tokenizes r and folds the token stream into a new WordGraph in a
// single left-to-right pass. An empty corpus yields an empty graph. A read
// failure is returned as a *CorpusError; a token over a configured tokenizer
// limit returns ErrTokenTooLong; a cancelled ctx stops the pass with ctx.Err().
func Build(ctx context.Context, tokenizer Tokenizer, r io.Reader) (*WordGraph, error) {
	graph := newWordGraph(tokenizer.Normalize)
	stream := tokenizer.NewStream(r)

	var previous *WordNode
	for {
		word, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, ErrTokenTooLong) {
				return nil, err
			}
			return nil, &CorpusError{Err: err}
		}

		node, ok := graph.nodes[word]
		if !ok {
			node = newWordNode(word)
			graph.nodes[word] = node
		}
		node.occurrences++
		graph.tokens++
		if graph.tokens%cancelCheckInterval == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}

		if previous != nil {
			previous.addSuccessor(word)
		}
		previous = node
	}

	return graph, nil
}

// Train builds a new graph from data and makes it the Generator's current
// graph. The previous graph is discarded, never merged; callers still holding
// it may keep reading it. On error the current graph is left in place.
func (g *Generator) Train(ctx context.Context, data io.Reader) (*WordGraph, error) {
	return g.train(ctx, "", data)
}

// TrainFrom opens src and trains on its full contents.
func (g *Generator) TrainFrom(ctx context.Context, src Source) (*WordGraph, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &CorpusError{Source: src.Name(), Err: err}
	}
	defer func(rc io.ReadCloser) {
		_ = rc.Close()
	}(rc)

	return g.train(ctx, src.Name(), rc)
}

func (g *Generator) train(ctx context.Context, name string, data io.Reader) (*WordGraph, error) {
	start := time.Now()

	graph, err := Build(ctx, g.tokenizer, data)
	if err != nil {
		var corpusErr *CorpusError
		if errors.As(err, &corpusErr) && corpusErr.Source == "" {
			corpusErr.Source = name
		}
		g.logger.ErrorContext(ctx, "Training failed",
			slog.String("source", name),
			slog.Any("error", err),
		)
		return nil, err
	}

	g.graph.Store(graph)

	stats := graph.Stats()
	g.logger.InfoContext(ctx, "Training completed",
		slog.String("source", name),
		slog.Int("tokens_processed", stats.Occurrences),
		slog.Int("distinct_tokens", stats.Tokens),
		slog.Int("edges", stats.Edges),
		slog.Duration("elapsed", time.Since(start)),
	)

	return graph, nil
}
