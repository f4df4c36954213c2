package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const catCorpus = "the cat ate a bat the cat ate a bat"

// setupTestConfig installs a default configuration and a discarding logger as
// the package globals, pointing the corpus store into a temp dir.
func setupTestConfig(t *testing.T) *Config {
	t.Helper()
	prevConfig, prevLogger := config, logger
	t.Cleanup(func() {
		config, logger = prevConfig, prevLogger
	})

	config = DefaultConfig()
	config.Server.DatabasePath = filepath.Join(t.TempDir(), "test.db")
	config.Generation.DefaultPolicy = "deterministic"
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return config
}

// writeCorpusFile writes text to a temp file and returns its path.
func writeCorpusFile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}
