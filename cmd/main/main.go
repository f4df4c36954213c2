package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	// Global flags
	configPath string
	logLevel   string

	config *Config
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wordchain",
	Short: "wordchain - word-adjacency Markov text generator",
	Long: `wordchain builds a first-order Markov model of word adjacency from a text
corpus and generates word sequences from a seed word.

Three policies are available:
  random         walk successors weighted by how often they were seen
  deterministic  always take the most frequent successor
  probable       list the k most frequent successors of the seed`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Only the long-running server leaves a default config file behind.
		var err error
		config, err = LoadConfig(configPath, cmd == serveCmd)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		level := config.Server.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(level)}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.json", "Path to the config file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
