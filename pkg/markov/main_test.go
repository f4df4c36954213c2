package markov

import (
	"context"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const catCorpus = "the cat ate a bat the cat ate a bat"

// mustBuild builds a graph from corpus with the default tokenizer.
func mustBuild(tb testing.TB, corpus string) *WordGraph {
	tb.Helper()
	graph, err := Build(context.Background(), NewDefaultTokenizer(), strings.NewReader(corpus))
	if err != nil {
		tb.Fatalf("Build() error = %v", err)
	}
	return graph
}

// setupTrainedGenerator is a convenience helper that returns a Generator
// already trained on corpus.
func setupTrainedGenerator(t *testing.T, corpus string) (context.Context, *Generator) {
	t.Helper()
	ctx := context.Background()
	g := NewGenerator(NewDefaultTokenizer())
	if _, err := g.Train(ctx, strings.NewReader(corpus)); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return ctx, g
}

// tokenize runs the default tokenizer over corpus and collects every token.
func tokenize(tb testing.TB, corpus string) []string {
	tb.Helper()
	stream := NewDefaultTokenizer().NewStream(strings.NewReader(corpus))
	var out []string
	for {
		word, err := stream.Next()
		if err != nil {
			break
		}
		out = append(out, word)
	}
	return out
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is the fallback corpus for benchmarking. it is not the real thing but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
