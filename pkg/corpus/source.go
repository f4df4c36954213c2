package corpus

import (
	"context"
	"io"
	"os"
	"strings"
)

// FileSource reads the corpus from a file on disk.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Open opens the file for sequential reading.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// TextSource serves an in-memory string, for request bodies and tests.
type TextSource struct {
	Label string
	Text  string
}

// Name returns the label, or "text" when none was given.
func (s TextSource) Name() string {
	if s.Label == "" {
		return "text"
	}
	return s.Label
}

// Open returns a reader over the text. Each call starts from the beginning.
func (s TextSource) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.Text)), nil
}
