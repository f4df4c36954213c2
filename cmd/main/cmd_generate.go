package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// generateFlags holds the generate command's flags. Flags that were set
// override the generation config.
type generateFlags struct {
	fromDB           bool
	randSeed         uint64
	prune            int
	seedInBudget     bool
	dropFinalRestart bool
	out              string
}

var genFlags generateFlags

// generateCmd mirrors the classic four-argument driver.
var generateCmd = &cobra.Command{
	Use:   "generate [corpus-file] <seed> <k> <policy>",
	Short: "Train on a corpus and print one generated sequence",
	Long: `Train a word graph on the corpus file, or on the corpus store with --db,
then run the policy from the seed word and print the space-joined result.

For random and deterministic, k is the number of steps to walk. For probable,
k is the number of ranked successors to list.`,
	Args: func(cmd *cobra.Command, args []string) error {
		want := 4
		if genFlags.fromDB {
			want = 3
		}
		if len(args) != want {
			return fmt.Errorf("accepts %d arg(s), received %d", want, len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		gc := genFlags.apply(cmd.Flags(), *config.Generation)
		text, err := runGenerate(cmd.Context(), gc, genFlags.fromDB, args)
		if err != nil {
			return err
		}
		if genFlags.out != "" {
			if err = atomic.WriteFile(genFlags.out, strings.NewReader(text+"\n")); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	generateCmd.Flags().BoolVar(&genFlags.fromDB, "db", false, "Train on the corpus store instead of a file")
	generateCmd.Flags().Uint64Var(&genFlags.randSeed, "rand-seed", 0, "Seed for the random policy (0 means unseeded)")
	generateCmd.Flags().IntVar(&genFlags.prune, "prune", 0, "Drop transitions seen this many times or fewer before generating")
	generateCmd.Flags().BoolVar(&genFlags.seedInBudget, "seed-in-budget", false, "Count the seed word toward k")
	generateCmd.Flags().BoolVar(&genFlags.dropFinalRestart, "drop-final-restart", false, "Do not emit the seed when the last step is a restart")
	generateCmd.Flags().StringVar(&genFlags.out, "out", "", "Write the result to this file instead of stdout")
	rootCmd.AddCommand(generateCmd)
}

func (f *generateFlags) apply(flags *pflag.FlagSet, gc GenerationConfig) GenerationConfig {
	if flags.Changed("rand-seed") {
		gc.RandSeed = f.randSeed
	}
	if flags.Changed("prune") {
		gc.PruneMinFreq = f.prune
	}
	if flags.Changed("seed-in-budget") {
		gc.SeedInBudget = f.seedInBudget
	}
	if flags.Changed("drop-final-restart") {
		gc.DropFinalRestart = f.dropFinalRestart
	}
	return gc
}

func newSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// runGenerate parses the positional arguments, trains and generates. args is
// <corpus-file> <seed> <k> <policy>, without the corpus file when fromDB is set.
func runGenerate(ctx context.Context, gc GenerationConfig, fromDB bool, args []string) (string, error) {
	// Reject bad arguments before reading any corpus.
	rest := args
	if !fromDB {
		rest = args[1:]
	}
	seed := rest[0]
	k, err := strconv.Atoi(rest[1])
	if err != nil {
		return "", fmt.Errorf("invalid length %q: %w", rest[1], err)
	}
	if k < 0 {
		return "", markov.ErrNegativeLength
	}
	policy, err := markov.ParsePolicy(rest[2])
	if err != nil {
		return "", err
	}

	var src markov.Source
	if fromDB {
		db, store, err := openStore(config.Server.DatabasePath, logger)
		if err != nil {
			return "", err
		}
		defer func() {
			store.Close()
			_ = db.Close()
		}()
		src = store.Source()
	} else {
		src = corpus.FileSource{Path: args[0]}
	}

	gen, err := trainGenerator(ctx, src, gc.PruneMinFreq)
	if err != nil {
		return "", err
	}

	result, err := gen.Generate(ctx, seed, k, policy, gc.generateOptions()...)
	if err != nil {
		return "", err
	}
	return result.String(), nil
}

// trainGenerator builds a generator trained on src, pruned when minFreq > 0.
func trainGenerator(ctx context.Context, src markov.Source, minFreq int) (*markov.Generator, error) {
	gen := markov.NewGenerator(nil)
	gen.SetLogger(logger)
	if _, err := gen.TrainFrom(ctx, src); err != nil {
		return nil, err
	}
	if minFreq > 0 {
		gen.Prune(ctx, minFreq)
	}
	return gen, nil
}
