package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CTAG07/wordchain/pkg/corpus"
	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveNoDB   bool
	serveCorpus string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation HTTP API",
	Long: `Serve the HTTP API. On startup the graph is trained from --corpus when given,
otherwise from the corpus store. It can be replaced later through /api/train
or /api/rebuild without interrupting running generations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoDB, "no-db", false, "Run without the corpus store")
	serveCmd.Flags().StringVar(&serveCorpus, "corpus", "", "Train on this file at startup instead of the corpus store")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	gen := markov.NewGenerator(nil)
	gen.SetLogger(logger)

	var store *corpus.Store
	if !serveNoDB {
		db, s, err := openStore(config.Server.DatabasePath, logger)
		if err != nil {
			return err
		}
		defer func() {
			logger.Info("Closing database connection.")
			s.Close()
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database", "error", err)
			}
		}()
		store = s
	}

	var src markov.Source
	switch {
	case serveCorpus != "":
		src = corpus.FileSource{Path: serveCorpus}
	case store != nil:
		src = store.Source()
	}
	if src != nil {
		if _, err := gen.TrainFrom(ctx, src); err != nil {
			return err
		}
		if minFreq := config.Generation.PruneMinFreq; minFreq > 0 {
			gen.Prune(ctx, minFreq)
		}
	}

	server := NewServer(config, logger, gen, store)
	apiHttpServer := &http.Server{
		Addr:              config.Server.ApiAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("Starting wordchain api server", "address", apiHttpServer.Addr)
		if err := apiHttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("Stopping api server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return apiHttpServer.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	logger.Info("wordchain has shut down.")
	return nil
}
