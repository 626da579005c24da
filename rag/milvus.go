package rag

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

func init() {
	RegisterStore("milvus", newMilvusStore)
}

// Field names of the chunk collection schema.
const (
	milvusFieldID        = "id"
	milvusFieldText      = "text"
	milvusFieldTitle     = "title"
	milvusFieldSource    = "source"
	milvusFieldEmbedding = "embedding"
)

// MilvusStore implements VectorStore on a Milvus deployment via the official
// Go SDK. One collection holds all chunks: id varchar primary key, text,
// title and source varchar fields, plus the embedding vector.
type MilvusStore struct {
	client  client.Client
	address string
	metric  entity.MetricType
	ef      int
}

func newMilvusStore(cfg *StoreConfig) (VectorStore, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("milvus store requires an address")
	}
	s := &MilvusStore{
		address: cfg.Address,
		metric:  convertMetricType(cfg.Metric),
		ef:      64,
	}
	if ef, ok := cfg.Options["ef"].(int); ok && ef > 0 {
		s.ef = ef
	}
	return s, nil
}

// Connect dials the Milvus server.
func (m *MilvusStore) Connect(ctx context.Context) error {
	c, err := client.NewClient(ctx, client.Config{
		Address: m.address,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to milvus at %s: %w", m.address, err)
	}
	m.client = c
	return nil
}

// Close releases the client connection.
func (m *MilvusStore) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Close()
}

// HasCollection reports whether the named collection exists.
func (m *MilvusStore) HasCollection(ctx context.Context, name string) (bool, error) {
	return m.client.HasCollection(ctx, name)
}

// DropCollection removes the named collection.
func (m *MilvusStore) DropCollection(ctx context.Context, name string) error {
	return m.client.DropCollection(ctx, name)
}

// EnsureCollection creates the chunk collection, its HNSW index and loads it
// into memory. Existing collections are left untouched apart from loading.
func (m *MilvusStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	exists, err := m.client.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", name, err)
	}

	if !exists {
		schema := entity.NewSchema().
			WithName(name).
			WithDescription("campusrag chunk collection").
			WithField(entity.NewField().WithName(milvusFieldID).WithDataType(entity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(milvusFieldText).WithDataType(entity.FieldTypeVarChar).WithMaxLength(65535)).
			WithField(entity.NewField().WithName(milvusFieldTitle).WithDataType(entity.FieldTypeVarChar).WithMaxLength(1024)).
			WithField(entity.NewField().WithName(milvusFieldSource).WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048)).
			WithField(entity.NewField().WithName(milvusFieldEmbedding).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(dimension)))

		if err := m.client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}

		idx, err := entity.NewIndexHNSW(m.metric, 16, 256)
		if err != nil {
			return fmt.Errorf("failed to build HNSW index: %w", err)
		}
		if err := m.client.CreateIndex(ctx, name, milvusFieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}

	if err := m.client.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", name, err)
	}
	return nil
}

// Upsert writes chunk records and their embeddings. Records whose IDs are
// already present are overwritten.
func (m *MilvusStore) Upsert(ctx context.Context, collection string, records []ChunkRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("record/vector count mismatch: %d vs %d", len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil
	}

	dim := len(vectors[0])
	ids := make([]string, len(records))
	texts := make([]string, len(records))
	titles := make([]string, len(records))
	sources := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
		texts[i] = rec.Text
		titles[i] = rec.Title
		sources[i] = rec.Source
	}

	_, err := m.client.Upsert(ctx, collection, "",
		entity.NewColumnVarChar(milvusFieldID, ids),
		entity.NewColumnVarChar(milvusFieldText, texts),
		entity.NewColumnVarChar(milvusFieldTitle, titles),
		entity.NewColumnVarChar(milvusFieldSource, sources),
		entity.NewColumnFloatVector(milvusFieldEmbedding, dim, vectors),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert %d records: %w", len(records), err)
	}
	return nil
}

// Flush forces pending inserts to be persisted. Useful after a bulk upsert.
func (m *MilvusStore) Flush(ctx context.Context, collection string) error {
	return m.client.Flush(ctx, collection, false)
}

// Search returns the topK most similar chunks to the query vector.
func (m *MilvusStore) Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	sp, err := entity.NewIndexHNSWSearchParam(m.ef)
	if err != nil {
		return nil, fmt.Errorf("failed to build search params: %w", err)
	}

	outputFields := []string{milvusFieldText, milvusFieldTitle, milvusFieldSource}
	results, err := m.client.Search(ctx, collection, nil, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		milvusFieldEmbedding, m.metric, topK, sp)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return m.wrapSearchResults(results), nil
}

func (m *MilvusStore) wrapSearchResults(results []client.SearchResult) []SearchResult {
	var out []SearchResult
	for _, rs := range results {
		for i := 0; i < rs.ResultCount; i++ {
			id, _ := rs.IDs.GetAsString(i)
			sr := SearchResult{
				ID:    id,
				Score: float64(rs.Scores[i]),
			}
			if col := rs.Fields.GetColumn(milvusFieldText); col != nil {
				if v, err := col.GetAsString(i); err == nil {
					sr.Text = v
				}
			}
			if col := rs.Fields.GetColumn(milvusFieldTitle); col != nil {
				if v, err := col.GetAsString(i); err == nil {
					sr.Title = v
				}
			}
			if col := rs.Fields.GetColumn(milvusFieldSource); col != nil {
				if v, err := col.GetAsString(i); err == nil {
					sr.Source = v
				}
			}
			out = append(out, sr)
		}
	}
	return out
}

func convertMetricType(metric string) entity.MetricType {
	switch metric {
	case "IP":
		return entity.IP
	case "L2", "":
		return entity.L2
	default:
		return entity.L2
	}
}
