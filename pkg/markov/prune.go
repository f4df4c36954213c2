package markov

import (
	"context"
	"log/slog"
)

// Pruned returns a copy of the graph with every transition seen minFreq
// times or fewer removed. This is useful for dropping rare, and often noisy,
// transitions. Occurrence counts are kept, so a token whose successors were
// all pruned becomes a dead end. The receiver is not modified.
func (g *WordGraph) Pruned(minFreq int) *WordGraph {
	pruned := newWordGraph(g.normalize)
	pruned.tokens = g.tokens

	for word, node := range g.nodes {
		copied := newWordNode(word)
		copied.occurrences = node.occurrences
		for _, next := range node.order {
			if count := node.successors[next]; count > minFreq {
				copied.order = append(copied.order, next)
				copied.successors[next] = count
				copied.transitions += count
			}
		}
		pruned.nodes[word] = copied
	}

	return pruned
}

// Prune replaces the current graph with a pruned copy and returns it. If a
// concurrent Train publishes a new graph first, the new graph is pruned
// instead.
func (g *Generator) Prune(ctx context.Context, minFreq int) *WordGraph {
	for {
		current := g.graph.Load()
		if current == nil {
			return emptyGraph
		}
		pruned := current.Pruned(minFreq)
		if !g.graph.CompareAndSwap(current, pruned) {
			continue
		}

		before, after := current.Stats(), pruned.Stats()
		g.logger.InfoContext(ctx, "Graph pruned",
			slog.Int("min_frequency", minFreq),
			slog.Int("edges_removed", before.Edges-after.Edges),
			slog.Int("dead_ends", after.DeadEnds),
		)
		return pruned
	}
}
