package splitter

import (
	"github.com/clipperhouse/uax29/sentences"

	"github.com/leagravellard/Projet-GENAI/components/embedder"
)

// Sentences splits text on Unicode sentence boundaries (UAX #29) and packs
// sentences into token bounded chunks.
type Sentences struct {
	Options
}

var _ embedder.Chunker = (*Sentences)(nil)

func NewSentences(opts ...Option) *Sentences {
	ret := new(Sentences)
	ret.overlap = DefaultOverlap
	for _, opt := range opts {
		opt(&ret.Options)
	}
	ret.delimiter = " "
	ret.defaults()
	return ret
}

func (s *Sentences) SplitText(txt string) []string {
	segs := sentences.SegmentAll([]byte(txt))
	parts := make([]string, 0, len(segs))
	for _, v := range segs {
		parts = append(parts, string(v))
	}
	return s.merge(parts)
}
