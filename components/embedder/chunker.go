package embedder

// Chunker splits a document text into parts small enough to be embedded
type Chunker interface {
	SplitText(string) []string
	TokenCount(txt string) int
}
