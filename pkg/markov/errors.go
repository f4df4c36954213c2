package markov

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by graph construction and generation.
// Callers should match them with errors.Is; the typed errors below carry
// the offending input.
var (
	ErrCorpusRead     = errors.New("markov: corpus could not be read")
	ErrSeedNotFound   = errors.New("markov: seed not found in graph")
	ErrInvalidPolicy  = errors.New("markov: invalid generation policy")
	ErrNegativeLength = errors.New("markov: generation length must not be negative")
	ErrTokenTooLong   = errors.New("markov: token exceeds the tokenizer's size limit")
)

// CorpusError reports a failure reading the corpus stream. It matches
// ErrCorpusRead as well as the underlying cause.
type CorpusError struct {
	Source string
	Err    error
}

func (e *CorpusError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("markov: corpus could not be read: %v", e.Err)
	}
	return fmt.Sprintf("markov: corpus %q could not be read: %v", e.Source, e.Err)
}

func (e *CorpusError) Unwrap() []error { return []error{ErrCorpusRead, e.Err} }

// SeedNotFoundError is returned when the normalized seed has no node in the
// graph. The graph remains valid for other seeds.
type SeedNotFoundError struct {
	Seed string
}

func (e *SeedNotFoundError) Error() string {
	return fmt.Sprintf("markov: seed %q not found in graph", e.Seed)
}

func (e *SeedNotFoundError) Unwrap() error { return ErrSeedNotFound }

// PolicyError is returned by ParsePolicy for an unrecognized selector.
type PolicyError struct {
	Name string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("markov: unknown policy %q (want random, deterministic or probable)", e.Name)
}

func (e *PolicyError) Unwrap() error { return ErrInvalidPolicy }

var (
	_ error = (*CorpusError)(nil)
	_ error = (*SeedNotFoundError)(nil)
	_ error = (*PolicyError)(nil)
)
