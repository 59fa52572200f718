package splitter

import (
	"strings"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		chunkSize  int
		overlap    int
		wantChunks []string
	}{
		{
			name:      "one sentence per chunk",
			input:     "Basic chunking one. Chunking two? Chunking three!",
			chunkSize: 1,
			overlap:   0,
			wantChunks: []string{
				"Basic chunking one.",
				"Chunking two?",
				"Chunking three!",
			},
		},
		{
			name:       "packed sentences",
			input:      "Basic chunking one. Chunking two? Chunking three!",
			chunkSize:  5,
			overlap:    0,
			wantChunks: []string{"Basic chunking one. Chunking two?", "Chunking three!"},
		},
		{
			name:       "with overlap",
			input:      "Basic chunking one. Chunking two? Chunking three!",
			chunkSize:  4,
			overlap:    1,
			wantChunks: []string{"Basic chunking one.", "Basic chunking one. Chunking two?", "Chunking two? Chunking three!"},
		},
		{
			name:       "blank input",
			input:      "   ",
			chunkSize:  4,
			wantChunks: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splitter := NewSentences(
				WithChunkSize(tt.chunkSize),
				WithOverlap(tt.overlap),
				WithTokenCounter(new(WordsTokenCounter)),
			)
			chunks := splitter.SplitText(tt.input)
			if len(tt.wantChunks) != len(chunks) {
				t.Fatalf("invalid chunks, want %d, got %d: %q", len(tt.wantChunks), len(chunks), strings.Join(chunks, "|"))
			}
			for i, want := range tt.wantChunks {
				if chunks[i] != want {
					t.Errorf("invalid chunk:%d, want %s, got %s", i, want, chunks[i])
				}
			}
		})
	}
}

func TestWordsTokenCounter(t *testing.T) {
	var c WordsTokenCounter
	if got := c.Count([]byte("Le chiffre d'affaires, 2023 !")); got != 4 {
		t.Errorf("want 4 words, got %d", got)
	}
}

func TestNewTokenCounter(t *testing.T) {
	text := []byte("Le chiffre d'affaires a augmenté. Il atteint 5M€.")
	for _, tt := range []struct {
		name string
		want int
	}{
		{"", 8},
		{"words", 8},
		{"sentences", 2},
	} {
		c, err := NewTokenCounter(tt.name)
		if err != nil {
			t.Fatalf("%q: %v", tt.name, err)
		}
		if got := c.Count(text); got != tt.want {
			t.Errorf("%q: want %d, got %d", tt.name, tt.want, got)
		}
	}
	if _, err := NewTokenCounter("unknown_encoding"); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
}
