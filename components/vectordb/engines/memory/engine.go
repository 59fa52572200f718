package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/leagravellard/Projet-GENAI/components/vectordb"
)

// Engine implements the vectordb.Engine interface using in-memory storage.
// It provides thread-safe operations for managing collections and performing
// cosine similarity searches without the need for external database systems.
type Engine struct {
	// collections stores all vector collections in memory
	collections *sync.Map
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

// Collection represents a named set of records.
type Collection struct {
	// records holds the actual records keyed by ID, ids keeps insertion order
	records map[string]vectordb.Record
	ids     []string
	// mu provides thread-safety for concurrent operations
	mu sync.RWMutex
}

// AddRecords adds records, replacing the ones sharing an ID
func (c *Collection) AddRecords(records ...vectordb.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records == nil {
		c.records = make(map[string]vectordb.Record, len(records))
	}
	for _, record := range records {
		if _, ok := c.records[record.ID]; !ok {
			c.ids = append(c.ids, record.ID)
		}
		c.records[record.ID] = record
	}
}

// Records returns a copy of the records in insertion order
func (c *Collection) Records() []vectordb.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make([]vectordb.Record, 0, len(c.ids))
	for _, id := range c.ids {
		ret = append(ret, c.records[id])
	}
	return ret
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

// New creates a new in-memory vector database instance.
func New(opts ...vectordb.Option) *Engine {
	ret := &Engine{
		collections: new(sync.Map),
	}
	vectordb.WithEngine(vectordb.Memory)(&ret.Options)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// Collection returns the named collection, creating it when missing.
func (e *Engine) Collection(_ context.Context, name string) (*Collection, error) {
	if name == "" {
		return nil, vectordb.ErrCollectionRequired
	}
	col, _ := e.collections.LoadOrStore(name, new(Collection))
	return col.(*Collection), nil
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...vectordb.Record) error {
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return err
	}
	docs := make([]vectordb.Record, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			record.ID = record.Embedding.UUID()
		}
		docs = append(docs, record)
	}
	col.AddRecords(docs...)
	return nil
}

func (e *Engine) Search(ctx context.Context, vectors []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	option, err := vectordb.NewSearchOptions(opts...)
	if err != nil {
		return nil, err
	}
	v, ok := e.collections.Load(option.Collection)
	if !ok {
		return nil, nil
	}
	var records []vectordb.Record
	for _, record := range v.(*Collection).Records() {
		if !recordMatchesFilters(&record, &option) {
			continue
		}
		record.Score = cosineSimilarity(vectors, record.Embedding.Embedding)
		if record.Score < e.MinScore {
			continue
		}
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	topK := min(e.ResolveTopK(option.TopK), len(records))
	return records[:topK], nil
}

func (e *Engine) Count(_ context.Context, collectionName string) (int, error) {
	v, ok := e.collections.Load(collectionName)
	if !ok {
		return 0, nil
	}
	return v.(*Collection).Len(), nil
}

// Drop removes a collection and all its data from the database.
func (e *Engine) Drop(_ context.Context, collectionName string) error {
	e.collections.Delete(collectionName)
	return nil
}

// recordMatchesFilters checks if a record matches the metadata and content filters.
func recordMatchesFilters(record *vectordb.Record, opts *vectordb.SearchOptions) bool {
	// A record's metadata must have *all* the fields in the where clause.
	for k, v := range opts.Meta {
		if record.Embedding.Meta[k] != v {
			return false
		}
	}
	if opts.Include != "" && !strings.Contains(record.Embedding.Object, opts.Include) {
		return false
	}
	if opts.Exclude != "" && strings.Contains(record.Embedding.Object, opts.Exclude) {
		return false
	}
	return true
}

// cosineSimilarity returns 0 for vectors of different length or zero norm.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
