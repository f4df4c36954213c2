package markov

import (
	"context"
	"log/slog"
)

// GenerateStream runs the same generation as Generate on the current graph
// but returns a read-only channel of tokens, starting with the seed for the
// walking policies. The channel is closed once generation is complete or the
// context is cancelled. Request errors (bad policy, negative k, unknown seed)
// are returned before any token is produced.
func (g *Generator) GenerateStream(ctx context.Context, seed string, k int, policy Policy, opts ...GenerateOption) (<-chan string, error) {
	graph := g.Graph()
	w, err := graph.newWalker(seed, k, policy, newGenerateOptions(opts))
	if err != nil {
		return nil, err
	}

	tokenChan := make(chan string)

	go func() {
		defer close(tokenChan)

		send := func(word string) bool {
			select {
			case <-ctx.Done():
				g.logger.DebugContext(ctx, "Generation stream cancelled by context",
					slog.String("seed", w.seed.word),
					slog.String("policy", policy.String()),
				)
				return false
			case tokenChan <- word:
				return true
			}
		}

		if policy == PolicyProbable {
			for _, s := range rankSuccessors(w.seed, k) {
				if !send(s.Word) {
					return
				}
			}
			return
		}

		if !send(w.seed.word) {
			return
		}
		for {
			word, ok := w.next()
			if !ok {
				return
			}
			if !send(word) {
				return
			}
		}
	}()

	return tokenChan, nil
}
