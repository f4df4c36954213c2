package markov

import (
	"bufio"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestDefaultTokenizer(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		opts     []Option
		expected []string
	}{
		{
			name:     "Punctuation splits words",
			input:    "Hello, World! How are you?",
			expected: []string{"hello", "world", "how", "are", "you"},
		},
		{
			name:     "Apostrophes and underscores stay inside tokens",
			input:    "It's snake_case--isn't it",
			expected: []string{"it's", "snake_case", "isn't", "it"},
		},
		{
			name:     "Consecutive separators produce no empty tokens",
			input:    "  a\n\n\tb ,;: c...",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "Symbols split like punctuation",
			input:    "x+y=z|w~v",
			expected: []string{"x", "y", "z", "w", "v"},
		},
		{
			name:     "Non-ASCII letters are kept",
			input:    "Café naïve Über",
			expected: []string{"café", "naïve", "über"},
		},
		{
			name:     "Unicode whitespace separates",
			input:    "a\u00a0b\u2003c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "Case folding can be disabled",
			input:    "The Cat",
			opts:     []Option{WithCaseFolding(false)},
			expected: []string{"The", "Cat"},
		},
		{
			name:     "Custom separator",
			input:    "a-b c",
			opts:     []Option{WithSeparatorFunc(func(r rune) bool { return r == '-' })},
			expected: []string{"a", "b c"},
		},
		{
			name:  "Empty input",
			input: "",
		},
		{
			name:  "Only separators",
			input: " ,.!? \n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stream := NewDefaultTokenizer(tc.opts...).NewStream(strings.NewReader(tc.input))

			var got []string
			for {
				word, err := stream.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("Next() error = %v", err)
				}
				if word == "" {
					t.Fatal("Next() returned an empty token")
				}
				got = append(got, word)
			}

			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestDefaultTokenizerSmallReads(t *testing.T) {
	// One byte per Read forces multi-byte runes to straddle buffer refills.
	input := "Über café — ok"
	stream := NewDefaultTokenizer().NewStream(iotest.OneByteReader(strings.NewReader(input)))

	var got []string
	for {
		word, err := stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("Next() error = %v", err)
			}
			break
		}
		got = append(got, word)
	}

	expected := []string{"über", "café", "—", "ok"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDefaultTokenizerErrors(t *testing.T) {
	t.Run("Reader failure", func(t *testing.T) {
		errBoom := errors.New("boom")
		stream := NewDefaultTokenizer().NewStream(iotest.ErrReader(errBoom))
		if _, err := stream.Next(); !errors.Is(err, errBoom) {
			t.Errorf("expected %v, got %v", errBoom, err)
		}
	})

	t.Run("Token too long", func(t *testing.T) {
		stream := NewDefaultTokenizer(WithMaxTokenSize(8)).NewStream(strings.NewReader("abcdefghijklmnop"))
		_, err := stream.Next()
		if !errors.Is(err, bufio.ErrTooLong) {
			t.Errorf("expected bufio.ErrTooLong, got %v", err)
		}
		if !errors.Is(err, ErrTokenTooLong) {
			t.Errorf("expected ErrTokenTooLong, got %v", err)
		}
		if errors.Is(err, ErrCorpusRead) {
			t.Errorf("an oversized token is not a read failure: %v", err)
		}
	})
}

func TestDefaultTokenizerLongToken(t *testing.T) {
	long := strings.Repeat("x", 70000)
	got := tokenize(t, "start "+long+" end")
	want := []string{"start", long, "end"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %d bytes %.10q, got %d bytes %.10q", i, len(want[i]), want[i], len(got[i]), got[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	tokenizer := NewDefaultTokenizer()
	testCases := map[string]string{
		"The":      "the",
		"  CAT, ":  "cat",
		"it's":     "it's",
		"_private": "_private",
		"":         "",
	}
	for input, expected := range testCases {
		if got := tokenizer.Normalize(input); got != expected {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, expected)
		}
	}
}
