package splitter

import (
	"strings"

	"github.com/leagravellard/Projet-GENAI/components/embedder"
)

const (
	DefaultChunkSize = 250
	DefaultOverlap   = 25
)

type Options struct {
	chunkSize    int
	overlap      int
	tokenCounter TokenCounter
	delimiter    string
}

var _ embedder.Chunker = (*Options)(nil)

// Option is a function type for configuring chunker Options.
type Option func(*Options)

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.chunkSize = size
	}
}

func WithOverlap(overlap int) Option {
	return func(o *Options) {
		o.overlap = overlap
	}
}

func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Options) {
		o.tokenCounter = counter
	}
}

func (o *Options) ChunkSize() int {
	return o.chunkSize
}

func (o *Options) Overlap() int {
	return o.overlap
}

func (o *Options) TokenCount(txt string) int {
	return o.tokenCounter.Count([]byte(txt))
}

// SplitText on bare Options treats every line as a part.
func (o *Options) SplitText(txt string) []string {
	return o.merge(strings.Split(txt, "\n"))
}

// merge packs consecutive parts into chunks of at most chunkSize tokens. A part
// larger than chunkSize becomes a chunk on its own. When a chunk is closed, the
// next one starts with as many trailing parts of the previous chunk as needed to
// reach the overlap.
func (o *Options) merge(raw []string) []string {
	parts := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	var (
		chunks       []string
		start        int
		currentCount int
	)
	for i, part := range parts {
		count := o.tokenCounter.Count([]byte(part))
		if currentCount > 0 && currentCount+count > o.chunkSize {
			chunks = append(chunks, strings.Join(parts[start:i], o.delimiter))
			overlapStart := max(start, i-o.overlapParts(parts, i))
			start = overlapStart
			currentCount = 0
			for j := overlapStart; j < i; j++ {
				currentCount += o.tokenCounter.Count([]byte(parts[j]))
			}
		}
		currentCount += count
	}
	if start < len(parts) {
		chunks = append(chunks, strings.Join(parts[start:], o.delimiter))
	}
	return chunks
}

// overlapParts returns how many parts before end are needed to cover the overlap.
func (o *Options) overlapParts(parts []string, end int) int {
	var tokens, n int
	for i := end - 1; i >= 0 && tokens < o.overlap; i-- {
		tokens += o.tokenCounter.Count([]byte(parts[i]))
		n++
	}
	return n
}

func (o *Options) defaults() {
	if o.chunkSize <= 0 {
		o.chunkSize = DefaultChunkSize
	}
	if o.overlap < 0 {
		o.overlap = 0
	}
	if o.tokenCounter == nil {
		o.tokenCounter = new(WordsTokenCounter)
	}
}
