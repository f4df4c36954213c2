package markov

// walkState is the generation state machine. A walk starts Walking at the
// seed, moves to Restarting when it reaches a dead end with steps left, and
// ends Terminated when the budget is spent or the seed itself is a dead end.
type walkState int

const (
	stateWalking walkState = iota
	stateRestarting
	stateTerminated
)

// walker produces one generated token per step. It never mutates the graph.
type walker struct {
	graph     *WordGraph
	seed      *WordNode
	current   *WordNode
	policy    Policy
	options   *generateOptions
	steps     int // remaining budget
	state     walkState
	restarts  int
	truncated bool
}

// newWalker validates a generation request: the policy first, so a bad
// selector produces no output at all, then k, then the seed.
func (g *WordGraph) newWalker(seed string, k int, policy Policy, options *generateOptions) (*walker, error) {
	if !policy.valid() {
		return nil, &PolicyError{Name: policy.String()}
	}
	if k < 0 {
		return nil, ErrNegativeLength
	}
	node, err := g.Lookup(seed)
	if err != nil {
		return nil, err
	}

	steps := k
	if options.seedInBudget && policy != PolicyProbable && steps > 0 {
		steps-- // the seed occupies one slot
	}

	return &walker{
		graph:   g,
		seed:    node,
		current: node,
		policy:  policy,
		options: options,
		steps:   steps,
	}, nil
}

// next advances the walk and returns the token emitted by this step. ok is
// false once the walk has terminated.
func (w *walker) next() (string, bool) {
	for {
		switch w.state {
		case stateWalking:
			if w.steps == 0 {
				w.state = stateTerminated
				continue
			}
			if w.current.FanOut() == 0 {
				w.state = stateRestarting
				continue
			}
			w.steps--
			word := w.choose(w.current)
			w.current = w.graph.nodes[word]
			return word, true

		case stateRestarting:
			if w.seed.FanOut() == 0 {
				w.truncated = true
				w.state = stateTerminated
				continue
			}
			// The restart is a step of its own.
			w.steps--
			w.restarts++
			w.current = w.seed
			w.state = stateWalking
			if w.steps == 0 && w.options.finalRestart == DropFinalRestart {
				w.state = stateTerminated
				continue
			}
			return w.seed.word, true

		default:
			return "", false
		}
	}
}

func (w *walker) choose(node *WordNode) string {
	if w.policy == PolicyRandom {
		return chooseWeighted(node, w.options.intN)
	}
	return chooseMostFrequent(node)
}

// chooseMostFrequent returns the successor with the highest count, breaking
// ties by ascending token. node must have at least one successor.
func chooseMostFrequent(node *WordNode) string {
	best, bestCount := "", -1
	for _, word := range node.order {
		count := node.successors[word]
		if count > bestCount || (count == bestCount && word < best) {
			best, bestCount = word, count
		}
	}
	return best
}

// chooseWeighted draws r uniformly from [1, total] and walks the successors
// in iteration order, returning the entry at which the remainder first drops
// to zero or below. node must have at least one successor.
func chooseWeighted(node *WordNode, intN func(int) int) string {
	r := intN(node.transitions) + 1
	for _, word := range node.order {
		r -= node.successors[word]
		if r <= 0 {
			return word
		}
	}
	// Unreachable while transitions equals the sum of the counts.
	return node.order[len(node.order)-1]
}
