package markov

import (
	"context"
	"testing"
	"time"
)

func TestGenerateStream(t *testing.T) {
	ctx, g := setupTrainedGenerator(t, catCorpus)

	t.Run("Successful stream", func(t *testing.T) {
		stream, err := g.GenerateStream(ctx, "the", 10, PolicyDeterministic)
		if err != nil {
			t.Fatalf("GenerateStream failed: %v", err)
		}

		var tokens []string
		for token := range stream {
			tokens = append(tokens, token)
		}

		want, _ := g.Generate(ctx, "the", 10, PolicyDeterministic)
		if len(tokens) != len(want.Tokens) {
			t.Fatalf("expected %d tokens, got %d (%q)", len(want.Tokens), len(tokens), tokens)
		}
		for i := range tokens {
			if tokens[i] != want.Tokens[i] {
				t.Errorf("token %d: expected %q, got %q", i, want.Tokens[i], tokens[i])
			}
		}
	})

	t.Run("Ranked stream", func(t *testing.T) {
		stream, err := g.GenerateStream(ctx, "the", 2, PolicyProbable)
		if err != nil {
			t.Fatalf("GenerateStream failed: %v", err)
		}
		var tokens []string
		for token := range stream {
			tokens = append(tokens, token)
		}
		if len(tokens) != 1 || tokens[0] != "cat" {
			t.Errorf("expected [cat], got %q", tokens)
		}
	})

	t.Run("Request errors are returned up front", func(t *testing.T) {
		if _, err := g.GenerateStream(ctx, "dog", 3, PolicyRandom); err == nil {
			t.Error("expected an error for an unknown seed")
		}
		if _, err := g.GenerateStream(ctx, "the", 3, Policy(9)); err == nil {
			t.Error("expected an error for an invalid policy")
		}
	})

	t.Run("Stream cancellation", func(t *testing.T) {
		ctxCancel, cancel := context.WithCancel(ctx)
		defer cancel()

		streamCancel, err := g.GenerateStream(ctxCancel, "the", 1_000_000, PolicyRandom)
		if err != nil {
			t.Fatalf("GenerateStream failed: %v", err)
		}

		// Read one token, then cancel
		<-streamCancel
		cancel()

		// The channel should now close quickly
		timeout := time.After(500 * time.Millisecond)
		for {
			select {
			case _, ok := <-streamCancel:
				if !ok {
					return
				}
			case <-timeout:
				t.Fatal("stream did not close after context cancellation")
			}
		}
	})
}
