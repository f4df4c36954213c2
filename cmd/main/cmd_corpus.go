package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the documents in the corpus store",
}

var corpusAddCmd = &cobra.Command{
	Use:   "add <name> <file>",
	Short: "Store a file as a corpus document, replacing one of the same name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *corpus.Store) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			doc, err := store.AddDocument(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "stored %q (#%d, %s)\n", doc.Name, doc.Id, humanize.Bytes(uint64(doc.Size)))
			return err
		})
	},
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored corpus documents in stream order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *corpus.Store) error {
			docs, err := store.ListDocuments(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tSIZE")
			for _, doc := range docs {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", doc.Id, doc.Name, humanize.Bytes(uint64(doc.Size)))
			}
			return tw.Flush()
		})
	},
}

var corpusRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a corpus document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *corpus.Store) error {
			return store.RemoveDocument(cmd.Context(), args[0])
		})
	},
}

func init() {
	corpusCmd.AddCommand(corpusAddCmd, corpusListCmd, corpusRemoveCmd)
	rootCmd.AddCommand(corpusCmd)
}

// withStore opens the configured corpus store for the duration of fn.
func withStore(fn func(store *corpus.Store) error) error {
	db, store, err := openStore(config.Server.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		_ = db.Close()
	}()
	return fn(store)
}
