package rag

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/leagravellard/Projet-GENAI/components"
	"github.com/leagravellard/Projet-GENAI/components/embedder"
	"github.com/leagravellard/Projet-GENAI/components/vectordb"
)

const (
	// DefaultCollection is the collection chunks are stored in
	DefaultCollection = "documents"
	// MetaSource is the metadata key of the chunk source identifier
	MetaSource = "source"
	// MetaPage is the metadata key of the 1-based page number
	MetaPage = "page"
)

// Chunk is a retrievable piece of a document
type Chunk struct {
	Text     string
	SourceID string
	// Page is 1-based, zero when unknown
	Page  int
	Score float64
}

// Retriever finds the chunks most similar to a query
type Retriever interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]Chunk, error)
	IsEmpty(ctx context.Context) (bool, error)
}

var _ Retriever = (*Index)(nil)

type IndexOption func(*Index)

func WithCollection(name string) IndexOption {
	return func(i *Index) {
		i.collection = name
	}
}

func WithIndexLogger(l *slog.Logger) IndexOption {
	return func(i *Index) {
		i.logger = l
	}
}

// Index is a Retriever backed by an embedder and a vector engine
type Index struct {
	embedder   embedder.Embedder
	engine     vectordb.Engine
	collection string
	logger     *slog.Logger
}

func NewIndex(e embedder.Embedder, engine vectordb.Engine, opts ...IndexOption) *Index {
	ret := &Index{
		embedder:   e,
		engine:     engine,
		collection: DefaultCollection,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

func (i *Index) Collection() string {
	return i.collection
}

// AddChunks embeds chunks and stores them. Chunks with identical text and source are stored once.
func (i *Index) AddChunks(ctx context.Context, chunks ...Chunk) (*components.LLMUsage, error) {
	usage := new(components.LLMUsage)
	if len(chunks) == 0 {
		return usage, nil
	}
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Text)
	}
	embeddings, err := i.embedder.BatchEmbed(ctx, parts, usage)
	if err != nil {
		return usage, err
	}
	if len(embeddings) != len(chunks) {
		return usage, errors.New("rag: embeddings count mismatch")
	}
	for idx, c := range chunks {
		meta := map[string]string{MetaSource: c.SourceID}
		if c.Page > 0 {
			meta[MetaPage] = strconv.Itoa(c.Page)
		}
		embeddings[idx].Object = c.Text
		embeddings[idx].Meta = meta
	}
	if err := i.engine.Insert(ctx, i.collection, vectordb.NewRecords(embeddings)...); err != nil {
		return usage, err
	}
	i.logger.InfoContext(ctx, "chunks indexed", slog.String("collection", i.collection), slog.Int("count", len(chunks)))
	return usage, nil
}

// SimilaritySearch returns at most k chunks, most similar first
func (i *Index) SimilaritySearch(ctx context.Context, query string, k int) ([]Chunk, error) {
	var embedding embedder.Embedding
	if err := i.embedder.Embed(ctx, query, &embedding, nil); err != nil {
		return nil, err
	}
	records, err := i.engine.Search(ctx, embedding.Embedding,
		vectordb.SearchWithCollection(i.collection),
		vectordb.SearchWithTopK(k),
	)
	if err != nil {
		return nil, err
	}
	ret := make([]Chunk, 0, len(records))
	for _, r := range records {
		chunk := Chunk{
			Text:     r.Embedding.Object,
			SourceID: r.Embedding.Meta[MetaSource],
			Score:    r.Score,
		}
		if page, err := strconv.Atoi(r.Embedding.Meta[MetaPage]); err == nil {
			chunk.Page = page
		}
		ret = append(ret, chunk)
	}
	return ret, nil
}

// Count returns the number of stored chunks
func (i *Index) Count(ctx context.Context) (int, error) {
	return i.engine.Count(ctx, i.collection)
}

func (i *Index) IsEmpty(ctx context.Context) (bool, error) {
	n, err := i.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Purge drops the collection
func (i *Index) Purge(ctx context.Context) error {
	return i.engine.Drop(ctx, i.collection)
}
