package markov

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTokenizer is the default implementation of the Tokenizer interface.
// It splits text on whitespace and ASCII punctuation, keeping underscores and
// apostrophes inside words (so "it's" and "snake_case" stay whole), and folds
// every token to lower case. Its behavior can be customized with functional
// options.
type DefaultTokenizer struct {
	isSeparator  func(rune) bool
	foldCase     bool
	maxTokenSize int
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparatorFunc sets the predicate deciding which runes split tokens.
// Default: IsDefaultSeparator
func WithSeparatorFunc(fn func(rune) bool) Option {
	return func(t *DefaultTokenizer) {
		if fn != nil {
			t.isSeparator = fn
		}
	}
}

// WithCaseFolding sets whether tokens are lower-cased.
// Default: true
func WithCaseFolding(fold bool) Option {
	return func(t *DefaultTokenizer) {
		t.foldCase = fold
	}
}

// WithMaxTokenSize sets the largest single token, in bytes, the stream will
// accept. A longer token fails the stream with an error matching both
// ErrTokenTooLong and bufio.ErrTooLong. n <= 0 means no limit.
// Default: no limit
func WithMaxTokenSize(n int) Option {
	return func(t *DefaultTokenizer) {
		t.maxTokenSize = max(n, 0)
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		isSeparator:  IsDefaultSeparator,
		foldCase:     true,
		maxTokenSize: 0,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// IsDefaultSeparator reports whether r splits tokens under the default rule:
// any whitespace or control character, or any ASCII punctuation or symbol
// except '_' and '\''.
func IsDefaultSeparator(r rune) bool {
	if unicode.IsSpace(r) || unicode.IsControl(r) {
		return true
	}
	if r == '_' || r == '\'' {
		return false
	}
	return r < utf8.RuneSelf && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// Normalize trims separators from both ends of word and applies case folding.
func (t *DefaultTokenizer) Normalize(word string) string {
	word = strings.TrimFunc(word, t.isSeparator)
	if t.foldCase {
		word = strings.ToLower(word)
	}
	return word
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	limit := t.maxTokenSize
	if limit == 0 {
		// The scanner doubles its buffer as needed; this only bounds it by memory.
		limit = math.MaxInt
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(4096, limit)), limit)
	scanner.Split(t.split)
	return &DefaultStreamTokenizer{
		scanner:      scanner,
		foldCase:     t.foldCase,
		maxTokenSize: t.maxTokenSize,
	}
}

// split is a bufio.SplitFunc returning maximal runs of non-separator runes.
// A token is only emitted once the separator after it has been seen in full,
// so multi-byte runes straddling a buffer boundary are never cut.
func (t *DefaultTokenizer) split(data []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(data) {
		r, width := utf8.DecodeRune(data[start:])
		if !t.isSeparator(r) {
			break
		}
		start += width
	}

	for i := start; i < len(data); {
		r, width := utf8.DecodeRune(data[i:])
		if t.isSeparator(r) {
			return i + width, data[start:i], nil
		}
		i += width
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer interface.
// It drives a bufio.Scanner with the owning tokenizer's split function.
type DefaultStreamTokenizer struct {
	scanner      *bufio.Scanner
	foldCase     bool
	maxTokenSize int // 0 when unlimited
}

// Next returns the next token from the stream. When the stream is exhausted,
// it returns an empty string and io.EOF. A token over the configured size
// limit returns an error matching ErrTokenTooLong. Any other error indicates a
// problem reading from the underlying stream.
func (s *DefaultStreamTokenizer) Next() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return "", fmt.Errorf("%w (limit %d bytes): %w", ErrTokenTooLong, s.maxTokenSize, err)
			}
			return "", err
		}
		return "", io.EOF
	}

	word := s.scanner.Text()
	if s.foldCase {
		word = strings.ToLower(word)
	}
	return word, nil
}
