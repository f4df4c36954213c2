package markov

import (
	"sort"
	"strings"
)

// Successor is a token observed directly after another token, with the number
// of times that transition was seen.
type Successor struct {
	Word  string
	Count int
}

// WordNode holds everything known about one distinct token: how often it
// occurred and which tokens followed it. Nodes are owned by their WordGraph
// and are read-only once the graph is built.
type WordNode struct {
	word        string
	occurrences int
	successors  map[string]int
	order       []string // successor keys in first-seen order
	transitions int      // sum of successors values
}

func newWordNode(word string) *WordNode {
	return &WordNode{
		word:       word,
		successors: make(map[string]int),
	}
}

// addSuccessor records one next transition.
func (n *WordNode) addSuccessor(next string) {
	if _, ok := n.successors[next]; !ok {
		n.order = append(n.order, next)
	}
	n.successors[next]++
	n.transitions++
}

// Word returns the normalized token this node represents.
func (n *WordNode) Word() string { return n.word }

// Occurrences returns how many times the token appeared in the corpus.
func (n *WordNode) Occurrences() int { return n.occurrences }

// TotalTransitions returns the number of times the token was followed by
// another token. It is independent of Occurrences: the last token of the
// corpus counts as an occurrence without a transition.
func (n *WordNode) TotalTransitions() int { return n.transitions }

// FanOut returns the number of distinct successors. Zero means dead end.
func (n *WordNode) FanOut() int { return len(n.order) }

// Count returns the transition count for next, or 0 if never observed.
func (n *WordNode) Count(next string) int { return n.successors[next] }

// Successors returns a copy of the successor set in first-seen order.
func (n *WordNode) Successors() []Successor {
	out := make([]Successor, len(n.order))
	for i, word := range n.order {
		out[i] = Successor{Word: word, Count: n.successors[word]}
	}
	return out
}

// WordGraph maps each distinct token to its WordNode. A graph is built once by
// Build and never mutated afterwards, so it is safe to share between
// goroutines.
type WordGraph struct {
	nodes     map[string]*WordNode
	normalize func(string) string
	tokens    int // length of the token stream the graph was built from
}

func newWordGraph(normalize func(string) string) *WordGraph {
	if normalize == nil {
		normalize = strings.ToLower
	}
	return &WordGraph{
		nodes:     make(map[string]*WordNode),
		normalize: normalize,
	}
}

// emptyGraph stands in for "nothing trained yet".
var emptyGraph = newWordGraph(nil)

// Len returns the number of distinct tokens.
func (g *WordGraph) Len() int { return len(g.nodes) }

// Node returns the node for an already-normalized token.
func (g *WordGraph) Node(token string) (*WordNode, bool) {
	n, ok := g.nodes[token]
	return n, ok
}

// Lookup normalizes word the way the graph's tokenizer does and returns its
// node, or a *SeedNotFoundError.
func (g *WordGraph) Lookup(word string) (*WordNode, error) {
	token := g.normalize(word)
	n, ok := g.nodes[token]
	if !ok {
		return nil, &SeedNotFoundError{Seed: token}
	}
	return n, nil
}

// Tokens returns every distinct token in ascending order.
func (g *WordGraph) Tokens() []string {
	out := make([]string, 0, len(g.nodes))
	for word := range g.nodes {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

// TopSuccessors returns up to k successors of seed ordered by descending
// count, then ascending token. A seed with fewer than k successors yields all
// of them.
func (g *WordGraph) TopSuccessors(seed string, k int) ([]Successor, error) {
	if k < 0 {
		return nil, ErrNegativeLength
	}
	node, err := g.Lookup(seed)
	if err != nil {
		return nil, err
	}
	return rankSuccessors(node, k), nil
}

func rankSuccessors(node *WordNode, k int) []Successor {
	ranked := node.Successors()
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
