package splitter

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter defines the interface for counting tokens in a string.
// This abstraction allows for different tokenization strategies (e.g., words, subwords).
type TokenCounter interface {
	// Count returns the number of tokens in the given text according to the
	// implementation's tokenization strategy.
	Count(p []byte) int
}

// WordsTokenCounter counts UAX #29 word segments holding at least one letter or digit.
type WordsTokenCounter struct{}

func (c WordsTokenCounter) Count(p []byte) int {
	var n int
	for _, seg := range words.SegmentAll(p) {
		if wordlike(seg) {
			n++
		}
	}
	return n
}

func wordlike(seg []byte) bool {
	for len(seg) > 0 {
		r, size := utf8.DecodeRune(seg)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		seg = seg[size:]
	}
	return false
}

type SentencesTokenCounter struct{}

func (c SentencesTokenCounter) Count(p []byte) int {
	return len(sentences.SegmentAll(p))
}

// TikTokenCounter provides accurate token counting using the tiktoken library,
// which implements the tokenization schemes used by OpenAI models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter creates a new TikTokenCounter using the specified encoding.
// Common encodings include:
// - "cl100k_base" (GPT-4, ChatGPT)
// - "o200k_base" (GPT-4o)
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

// Count returns the exact number of tokens in the text according to the
// specified tiktoken encoding.
func (ttc *TikTokenCounter) Count(p []byte) int {
	return len(ttc.tke.Encode(string(p), nil, nil))
}

// NewTokenCounter returns the counter named name: "words" (default), "sentences",
// or a tiktoken encoding such as "cl100k_base".
func NewTokenCounter(name string) (TokenCounter, error) {
	switch name {
	case "", "words":
		return WordsTokenCounter{}, nil
	case "sentences":
		return SentencesTokenCounter{}, nil
	}
	c, err := NewTikTokenCounter(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}
