package markov

// GraphStats holds aggregated statistics for a WordGraph.
type GraphStats struct {
	Tokens      int // The number of distinct tokens (nodes).
	Occurrences int // The length of the token stream; the sum of all occurrence counts.
	Transitions int // The sum of all successor counts; the number of observed adjacent pairs.
	Edges       int // The number of distinct token->successor links.
	DeadEnds    int // The number of tokens with no successors.
	MaxFanOut   int // The largest successor set of any single token.
}

// Stats returns a snapshot of statistics for the graph.
func (g *WordGraph) Stats() GraphStats {
	var stats GraphStats
	stats.Tokens = len(g.nodes)
	for _, node := range g.nodes {
		stats.Occurrences += node.occurrences
		stats.Transitions += node.transitions
		stats.Edges += len(node.order)
		if len(node.order) == 0 {
			stats.DeadEnds++
		}
		if len(node.order) > stats.MaxFanOut {
			stats.MaxFanOut = len(node.order)
		}
	}
	return stats
}
