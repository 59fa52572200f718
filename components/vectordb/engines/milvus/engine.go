package milvus

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	milvusClient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/leagravellard/Projet-GENAI/components/vectordb"
)

const (
	idField        = "id"
	embeddingField = "embedding"
	contentField   = "content"
	metaField      = "meta"
	maxContentLen  = 65535
)

type Engine struct {
	db milvusClient.Client
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

func New(db milvusClient.Client, opts ...vectordb.Option) *Engine {
	ret := &Engine{
		db: db,
	}
	vectordb.WithEngine(vectordb.Milvus)(&ret.Options)
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// Dial connects to a milvus server at address
func Dial(ctx context.Context, address string, opts ...vectordb.Option) (*Engine, error) {
	db, err := milvusClient.NewClient(ctx, milvusClient.Config{Address: address})
	if err != nil {
		return nil, err
	}
	return New(db, opts...), nil
}

func (e *Engine) CreateCollection(ctx context.Context, name string, dim int64) error {
	schema := entity.NewSchema().WithName(name).WithAutoID(false).
		WithField(entity.NewField().WithName(idField).WithDataType(entity.FieldTypeVarChar).WithMaxLength(36).WithIsPrimaryKey(true).WithIsAutoID(false)).
		WithField(entity.NewField().WithName(embeddingField).WithDataType(entity.FieldTypeFloatVector).WithDim(dim)).
		WithField(entity.NewField().WithName(contentField).WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxContentLen)).
		WithField(entity.NewField().WithName(metaField).WithDataType(entity.FieldTypeJSON))
	if err := e.db.CreateCollection(ctx, schema, 0); err != nil {
		return err
	}
	idxHnsw, err := entity.NewIndexHNSW(entity.COSINE, 8, 200)
	if err != nil {
		return err
	}
	return e.db.CreateIndex(ctx, name, embeddingField, idxHnsw, false, milvusClient.WithIndexName("embedding_idx"))
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...vectordb.Record) error {
	if len(records) == 0 {
		return nil
	}
	if collectionName == "" {
		return vectordb.ErrCollectionRequired
	}
	dim := int64(len(records[0].Embedding.Embedding))
	if exists, err := e.db.HasCollection(ctx, collectionName); err != nil {
		return err
	} else if !exists {
		if err := e.CreateCollection(ctx, collectionName, dim); err != nil {
			return err
		}
	}
	var (
		ids      = make([]string, 0, len(records))
		vectors  = make([][]float32, 0, len(records))
		contents = make([]string, 0, len(records))
		metas    = make([][]byte, 0, len(records))
	)
	for _, record := range records {
		if record.ID == "" {
			record.ID = record.Embedding.UUID()
		}
		meta := record.Embedding.Meta
		if meta == nil {
			meta = map[string]string{}
		}
		bs, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		ids = append(ids, record.ID)
		vectors = append(vectors, vectordb.Float32s(record.Embedding.Embedding))
		contents = append(contents, record.Embedding.Object)
		metas = append(metas, bs)
	}
	if _, err := e.db.Insert(ctx, collectionName, "",
		entity.NewColumnVarChar(idField, ids),
		entity.NewColumnFloatVector(embeddingField, int(dim), vectors),
		entity.NewColumnVarChar(contentField, contents),
		entity.NewColumnJSONBytes(metaField, metas),
	); err != nil {
		return err
	}
	return e.db.Flush(ctx, collectionName, false)
}

// Search performs vector similarity search on a collection.
func (e *Engine) Search(ctx context.Context, vectors []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	option, err := vectordb.NewSearchOptions(opts...)
	if err != nil {
		return nil, err
	}
	if exists, err := e.db.HasCollection(ctx, option.Collection); err != nil {
		return nil, err
	} else if !exists {
		return nil, nil
	}
	if err := e.db.LoadCollection(ctx, option.Collection, false); err != nil {
		return nil, err
	}
	topK := e.ResolveTopK(option.TopK)
	searchParams, err := entity.NewIndexHNSWSearchParam(max(topK, 16))
	if err != nil {
		return nil, err
	}
	query := entity.FloatVector(vectordb.Float32s(vectors))
	results, err := e.db.Search(ctx, option.Collection, nil, "", []string{idField, contentField, metaField}, []entity.Vector{query}, embeddingField, entity.COSINE, topK, searchParams)
	if err != nil {
		return nil, err
	}
	var searchResults []vectordb.Record
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			var record vectordb.Record
			searchResultToRecord(&result, i, &record)
			if record.Score < e.MinScore || !matchesFilters(&record, &option) {
				continue
			}
			searchResults = append(searchResults, record)
		}
	}
	return searchResults, nil
}

func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	if exists, err := e.db.HasCollection(ctx, collectionName); err != nil || !exists {
		return 0, err
	}
	stats, err := e.db.GetCollectionStatistics(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(stats["row_count"])
}

func (e *Engine) Drop(ctx context.Context, collectionName string) error {
	if exists, err := e.db.HasCollection(ctx, collectionName); err != nil || !exists {
		return err
	}
	return e.db.DropCollection(ctx, collectionName)
}

func matchesFilters(record *vectordb.Record, opts *vectordb.SearchOptions) bool {
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

func searchResultToRecord(result *milvusClient.SearchResult, idx int, record *vectordb.Record) {
	if idx < len(result.Scores) {
		record.Score = float64(result.Scores[idx])
	}
	if col := result.Fields.GetColumn(idField); col != nil {
		record.ID, _ = col.GetAsString(idx)
	} else if result.IDs != nil {
		record.ID, _ = result.IDs.GetAsString(idx)
	}
	if col := result.Fields.GetColumn(contentField); col != nil {
		record.Embedding.Object, _ = col.GetAsString(idx)
	}
	if col := result.Fields.GetColumn(metaField); col != nil {
		if v, err := col.Get(idx); err == nil {
			if bs, ok := v.([]byte); ok {
				json.Unmarshal(bs, &record.Embedding.Meta)
			}
		}
	}
}

// Close releases the server connection
func (e *Engine) Close() error {
	return e.db.Close()
}
