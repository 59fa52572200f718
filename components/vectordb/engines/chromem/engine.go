package chromem

import (
	"context"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/leagravellard/Projet-GENAI/components/vectordb"
)

type Engine struct {
	db *chromem.DB
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

func New(db *chromem.DB, opts ...vectordb.Option) *Engine {
	ret := &Engine{
		db: db,
	}
	vectordb.WithEngine(vectordb.Chromem)(&ret.Options)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// NewPersistent opens (or creates) a chromem database persisted under path
func NewPersistent(path string, compress bool, opts ...vectordb.Option) (*Engine, error) {
	db, err := chromem.NewPersistentDB(path, compress)
	if err != nil {
		return nil, err
	}
	return New(db, opts...), nil
}

func (e *Engine) Collection(_ context.Context, name string) (*chromem.Collection, error) {
	if name == "" {
		return nil, vectordb.ErrCollectionRequired
	}
	// embeddings are always computed by the caller, the embedding func is never used
	return e.db.GetOrCreateCollection(name, nil, nil)
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...vectordb.Record) error {
	if len(records) == 0 {
		return nil
	}
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, 0, len(records))
	for _, record := range records {
		var doc chromem.Document
		recordToDocument(&record, &doc)
		docs = append(docs, doc)
	}
	// Insert documents in batches to avoid memory issues
	batchSize := 100
	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))
		if err := col.AddDocuments(ctx, docs[i:end], runtime.NumCPU()); err != nil {
			return err
		}
	}
	return nil
}

// Search performs vector similarity search on a collection.
func (e *Engine) Search(ctx context.Context, vectors []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	option, err := vectordb.NewSearchOptions(opts...)
	if err != nil {
		return nil, err
	}
	col := e.db.GetCollection(option.Collection, nil)
	if col == nil {
		return nil, nil
	}
	// chromem rejects a result count above the collection size
	topK := min(e.ResolveTopK(option.TopK), col.Count())
	if topK == 0 {
		return nil, nil
	}
	var whereDocument map[string]string
	if option.Include != "" || option.Exclude != "" {
		whereDocument = make(map[string]string, 2)
		if option.Include != "" {
			whereDocument["$contains"] = option.Include
		}
		if option.Exclude != "" {
			whereDocument["$not_contains"] = option.Exclude
		}
	}
	results, err := col.QueryEmbedding(ctx, vectordb.Float32s(vectors), topK, option.Meta, whereDocument)
	if err != nil {
		return nil, err
	}
	searchResults := make([]vectordb.Record, 0, len(results))
	for _, result := range results {
		var rec vectordb.Record
		resultToRecord(&result, &rec)
		if rec.Score < e.MinScore {
			continue
		}
		searchResults = append(searchResults, rec)
	}
	return searchResults, nil
}

func (e *Engine) Count(_ context.Context, collectionName string) (int, error) {
	col := e.db.GetCollection(collectionName, nil)
	if col == nil {
		return 0, nil
	}
	return col.Count(), nil
}

func (e *Engine) Drop(_ context.Context, collectionName string) error {
	if e.db.GetCollection(collectionName, nil) == nil {
		return nil
	}
	return e.db.DeleteCollection(collectionName)
}

func resultToRecord(res *chromem.Result, record *vectordb.Record) {
	record.ID = res.ID
	record.Score = float64(res.Similarity)
	record.Embedding.Object = res.Content
	record.Embedding.Meta = res.Metadata
	record.Embedding.Embedding = vectordb.Float64s(res.Embedding)
}

func recordToDocument(record *vectordb.Record, doc *chromem.Document) {
	if record.ID == "" {
		record.ID = record.Embedding.UUID()
	}
	doc.ID = record.ID
	doc.Content = record.Embedding.Object
	doc.Metadata = record.Embedding.Meta
	doc.Embedding = vectordb.Float32s(record.Embedding.Embedding)
}
