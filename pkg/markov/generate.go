package markov

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
)

// Policy selects how each next token is chosen. It is decided once per call;
// use ParsePolicy to turn a user-supplied selector into a Policy.
type Policy int

const (
	// PolicyRandom samples each successor with probability proportional to
	// its transition count.
	PolicyRandom Policy = iota + 1
	// PolicyDeterministic always takes the most frequent successor, ties
	// broken by ascending token.
	PolicyDeterministic
	// PolicyProbable reports the top-k successors of the seed without walking.
	PolicyProbable
)

func (p Policy) String() string {
	switch p {
	case PolicyRandom:
		return "random"
	case PolicyDeterministic:
		return "deterministic"
	case PolicyProbable:
		return "probable"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func (p Policy) valid() bool {
	return p >= PolicyRandom && p <= PolicyProbable
}

// ParsePolicy maps "random", "deterministic" or "probable" (any case) to a
// Policy. Anything else returns a *PolicyError.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return PolicyRandom, nil
	case "deterministic":
		return PolicyDeterministic, nil
	case "probable":
		return PolicyProbable, nil
	default:
		return 0, &PolicyError{Name: name}
	}
}

// FinalRestartMode decides what happens when the walk dead-ends with exactly
// one step of budget left, so the restart itself is the last step.
type FinalRestartMode int

const (
	// KeepFinalRestart emits the re-appended seed as the final token.
	KeepFinalRestart FinalRestartMode = iota
	// DropFinalRestart spends the step but ends the walk without emitting
	// the seed again.
	DropFinalRestart
)

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	intN         func(n int) int
	finalRestart FinalRestartMode
	seedInBudget bool
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in generation functions like Generate and GenerateStream.
type GenerateOption func(*generateOptions)

// WithRand draws weighted-random choices from r instead of the process-level
// source, which makes PolicyRandom reproducible. A *rand.Rand is not safe for
// concurrent use, so give each concurrent call its own.
func WithRand(r *rand.Rand) GenerateOption {
	return func(o *generateOptions) {
		if r != nil {
			o.intN = r.IntN
		}
	}
}

// WithFinalRestart sets the FinalRestartMode. Default: KeepFinalRestart.
func WithFinalRestart(mode FinalRestartMode) GenerateOption {
	return func(o *generateOptions) { o.finalRestart = mode }
}

// WithSeedInBudget makes k count the seed itself, so a walk yields at most k
// tokens (never fewer than the seed). By default k counts only the tokens
// generated after the seed.
func WithSeedInBudget(counted bool) GenerateOption {
	return func(o *generateOptions) { o.seedInBudget = counted }
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		intN:         rand.IntN,
		finalRestart: KeepFinalRestart,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// maxInitialTokens caps the up-front allocation for a walk's output.
const maxInitialTokens = 1024

// Result is the outcome of one generation call. For walking policies Tokens
// starts with the normalized seed; for PolicyProbable it holds the ranked
// successors only.
type Result struct {
	Policy    Policy
	Tokens    []string
	Restarts  int  // dead ends that sent the walk back to the seed
	Truncated bool // the walk ended before its step budget ran out
}

// String joins the tokens with single spaces.
func (r Result) String() string {
	return strings.Join(r.Tokens, " ")
}

// Generate runs policy from seed on the graph. k is the step budget for the
// walking policies and the list length for PolicyProbable. The graph is only
// read.
func (g *WordGraph) Generate(seed string, k int, policy Policy, opts ...GenerateOption) (Result, error) {
	w, err := g.newWalker(seed, k, policy, newGenerateOptions(opts))
	if err != nil {
		return Result{}, err
	}

	if policy == PolicyProbable {
		ranked := rankSuccessors(w.seed, k)
		tokens := make([]string, len(ranked))
		for i, s := range ranked {
			tokens[i] = s.Word
		}
		return Result{Policy: policy, Tokens: tokens}, nil
	}

	// k is caller-controlled and may be far larger than the walk ever gets.
	tokens := make([]string, 0, min(w.steps, maxInitialTokens)+1)
	tokens = append(tokens, w.seed.word)
	for {
		word, ok := w.next()
		if !ok {
			break
		}
		tokens = append(tokens, word)
	}

	return Result{
		Policy:    policy,
		Tokens:    tokens,
		Restarts:  w.restarts,
		Truncated: w.truncated,
	}, nil
}

// Generate runs policy from seed on the current graph and logs the outcome.
func (g *Generator) Generate(ctx context.Context, seed string, k int, policy Policy, opts ...GenerateOption) (Result, error) {
	res, err := g.Graph().Generate(seed, k, policy, opts...)
	if err != nil {
		g.logger.DebugContext(ctx, "Generation rejected",
			slog.String("seed", seed),
			slog.Int("k", k),
			slog.String("policy", policy.String()),
			slog.Any("error", err),
		)
		return Result{}, err
	}

	g.logger.DebugContext(ctx, "Generation completed",
		slog.String("seed", seed),
		slog.String("policy", policy.String()),
		slog.Int("k", k),
		slog.Int("generated_length", len(res.Tokens)),
		slog.Int("restarts", res.Restarts),
		slog.Bool("truncated", res.Truncated),
	)
	return res, nil
}

// GenerateString is a convenience wrapper that parses the policy selector
// and returns the space-joined output.
func (g *Generator) GenerateString(ctx context.Context, seed string, k int, policyName string, opts ...GenerateOption) (string, error) {
	policy, err := ParsePolicy(policyName)
	if err != nil {
		return "", err
	}
	res, err := g.Generate(ctx, seed, k, policy, opts...)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}
