package vectordb

import (
	"context"
	"errors"

	"github.com/leagravellard/Projet-GENAI/components/embedder"
)

type EngineType string

const (
	Memory  EngineType = "memory"
	Chromem EngineType = "chromem"
	Milvus  EngineType = "milvus"
)

// ErrCollectionRequired is returned when an operation misses its collection name
var ErrCollectionRequired = errors.New("vectordb: collection name required")

// Engine stores embeddings in named collections and runs similarity searches on them.
// Search returns records ordered by decreasing Score, higher meaning more similar.
type Engine interface {
	Insert(ctx context.Context, collection string, records ...Record) error
	Search(ctx context.Context, vectors []float64, opts ...SearchOption) ([]Record, error)
	Count(ctx context.Context, collection string) (int, error)
	Drop(ctx context.Context, collection string) error
}

// NewRecords wraps embeddings into records with content derived IDs
func NewRecords(embeddings []embedder.Embedding) []Record {
	ret := make([]Record, 0, len(embeddings))
	for _, v := range embeddings {
		ret = append(ret, Record{
			ID:        v.UUID(),
			Embedding: v,
		})
	}
	return ret
}
