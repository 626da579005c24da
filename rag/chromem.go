package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

func init() {
	RegisterStore("chromem", newChromemStore)
}

// ChromemStore implements VectorStore on chromem-go, an embedded vector
// database. With an empty address it runs purely in memory, which is what
// local development and the tests use; with a path it persists to disk.
//
// Embeddings are always precomputed by the pipeline's Embedder, so the
// embedding function chromem requires is a stub that must never be called.
type ChromemStore struct {
	db          *chromem.DB
	address     string
	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

func newChromemStore(cfg *StoreConfig) (VectorStore, error) {
	return &ChromemStore{
		address:     cfg.Address,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func precomputedOnly(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("chromem store only accepts precomputed embeddings")
}

// Connect opens the database, creating the persistence directory if a path
// was configured.
func (c *ChromemStore) Connect(ctx context.Context) error {
	if c.address == "" {
		c.db = chromem.NewDB()
		return nil
	}
	if dir := filepath.Dir(c.address); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for chromem store: %w", err)
		}
	}
	db, err := chromem.NewPersistentDB(c.address, false)
	if err != nil {
		return fmt.Errorf("failed to open persistent chromem store: %w", err)
	}
	c.db = db
	return nil
}

// Close is a no-op; chromem has no connection to release.
func (c *ChromemStore) Close() error {
	return nil
}

// HasCollection reports whether the named collection exists.
func (c *ChromemStore) HasCollection(ctx context.Context, name string) (bool, error) {
	_, ok := c.db.ListCollections()[name]
	return ok, nil
}

// DropCollection removes the named collection.
func (c *ChromemStore) DropCollection(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.collections, name)
	return c.db.DeleteCollection(name)
}

// EnsureCollection creates the collection if missing. The dimension is not
// enforced by chromem; it is implied by the first vector added.
func (c *ChromemStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	col, err := c.db.GetOrCreateCollection(name, nil, precomputedOnly)
	if err != nil {
		return fmt.Errorf("failed to create chromem collection %s: %w", name, err)
	}
	c.collections[name] = col
	return nil
}

func (c *ChromemStore) collection(name string) (*chromem.Collection, error) {
	c.mu.RLock()
	col, ok := c.collections[name]
	c.mu.RUnlock()
	if ok {
		return col, nil
	}
	col = c.db.GetCollection(name, precomputedOnly)
	if col == nil {
		return nil, fmt.Errorf("collection not found: %s", name)
	}
	c.mu.Lock()
	c.collections[name] = col
	c.mu.Unlock()
	return col, nil
}

// Upsert writes chunk records with their embeddings.
func (c *ChromemStore) Upsert(ctx context.Context, collection string, records []ChunkRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("record/vector count mismatch: %d vs %d", len(records), len(vectors))
	}
	if len(records) == 0 {
		return nil
	}
	col, err := c.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID:        rec.ID,
			Content:   rec.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"title":  rec.Title,
				"source": rec.Source,
			},
		}
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("failed to add %d documents: %w", len(docs), err)
	}
	return nil
}

// Search returns the topK most similar chunks by cosine similarity.
func (c *ChromemStore) Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	col, err := c.collection(collection)
	if err != nil {
		return nil, err
	}

	// chromem rejects queries asking for more results than stored documents.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query failed: %w", err)
	}

	out := make([]SearchResult, 0, len(results))
	for _, res := range results {
		out = append(out, SearchResult{
			ID:     res.ID,
			Text:   res.Content,
			Title:  res.Metadata["title"],
			Source: res.Metadata["source"],
			Score:  float64(res.Similarity),
		})
	}
	return out, nil
}
