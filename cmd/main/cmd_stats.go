package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	statsFromDB bool
	statsTop    string
)

var statsCmd = &cobra.Command{
	Use:   "stats [corpus-file]",
	Short: "Print statistics for the graph built from a corpus",
	Args: func(cmd *cobra.Command, args []string) error {
		if statsFromDB {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var src markov.Source
		var size int64 = -1
		if statsFromDB {
			db, store, err := openStore(config.Server.DatabasePath, logger)
			if err != nil {
				return err
			}
			defer func() {
				store.Close()
				_ = db.Close()
			}()
			src = store.Source()
		} else {
			if info, err := os.Stat(args[0]); err == nil {
				size = info.Size()
			}
			src = corpus.FileSource{Path: args[0]}
		}

		start := time.Now()
		gen, err := trainGenerator(cmd.Context(), src, config.Generation.PruneMinFreq)
		if err != nil {
			return err
		}
		return writeStats(cmd.OutOrStdout(), gen.Graph(), size, time.Since(start), statsTop)
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsFromDB, "db", false, "Read the corpus store instead of a file")
	statsCmd.Flags().StringVar(&statsTop, "top", "", "Also list the ranked successors of this word")
	rootCmd.AddCommand(statsCmd)
}

// writeStats prints a human-readable summary of graph. A negative size is omitted.
func writeStats(w io.Writer, graph *markov.WordGraph, size int64, elapsed time.Duration, top string) error {
	stats := graph.Stats()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if size >= 0 {
		_, _ = fmt.Fprintf(tw, "corpus size:\t%s\n", humanize.Bytes(uint64(size)))
	}
	_, _ = fmt.Fprintf(tw, "tokens:\t%s\n", humanize.Comma(int64(stats.Tokens)))
	_, _ = fmt.Fprintf(tw, "occurrences:\t%s\n", humanize.Comma(int64(stats.Occurrences)))
	_, _ = fmt.Fprintf(tw, "transitions:\t%s\n", humanize.Comma(int64(stats.Transitions)))
	_, _ = fmt.Fprintf(tw, "edges:\t%s\n", humanize.Comma(int64(stats.Edges)))
	_, _ = fmt.Fprintf(tw, "dead ends:\t%s\n", humanize.Comma(int64(stats.DeadEnds)))
	_, _ = fmt.Fprintf(tw, "max fan-out:\t%s\n", humanize.Comma(int64(stats.MaxFanOut)))
	_, _ = fmt.Fprintf(tw, "build time:\t%s\n", elapsed.Round(time.Millisecond))
	if err := tw.Flush(); err != nil {
		return err
	}

	if top == "" {
		return nil
	}
	node, err := graph.Lookup(top)
	if err != nil {
		return err
	}
	successors, err := graph.TopSuccessors(top, node.FanOut())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\nsuccessors of %q (%s occurrences):\n", node.Word(), humanize.Comma(int64(node.Occurrences())))
	for i, s := range successors {
		_, _ = fmt.Fprintf(w, "%4s  %-20s %s\n", humanize.Ordinal(i+1), s.Word, humanize.Comma(int64(s.Count)))
	}
	return nil
}
