package rag

import (
	"context"
	"fmt"
	"sync"
)

// SearchResult is a single retrieved chunk with its similarity score.
type SearchResult struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Title  string  `json:"title"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// VectorStore is the contract for vector database backends. Implementations
// hold a connection to a hosted or embedded vector database and expose the
// handful of operations the pipeline needs.
type VectorStore interface {
	// Connect establishes the connection to the backing database.
	Connect(ctx context.Context) error

	// HasCollection reports whether the named collection exists.
	HasCollection(ctx context.Context, name string) (bool, error)

	// EnsureCollection creates the collection and its index for vectors of
	// the given dimension if it does not already exist.
	EnsureCollection(ctx context.Context, name string, dimension int) error

	// DropCollection removes the named collection and its data.
	DropCollection(ctx context.Context, name string) error

	// Upsert writes chunk records with their embeddings. vectors[i] is the
	// embedding of records[i]; records with known IDs are overwritten.
	Upsert(ctx context.Context, collection string, records []ChunkRecord, vectors [][]float32) error

	// Search returns the topK most similar chunks to the query vector,
	// ordered by descending similarity.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error)

	// Close releases the connection.
	Close() error
}

// StoreConfig holds the configuration for creating a VectorStore.
type StoreConfig struct {
	Type    string
	Address string
	Metric  string
	Options map[string]interface{}
}

// StoreOption configures a StoreConfig.
type StoreOption func(*StoreConfig)

// WithStoreType sets the backend type, e.g. "milvus" or "chromem".
func WithStoreType(storeType string) StoreOption {
	return func(c *StoreConfig) {
		c.Type = storeType
	}
}

// WithStoreAddress sets the backend address: host:port for milvus, a
// filesystem path (or empty for in-memory) for chromem.
func WithStoreAddress(address string) StoreOption {
	return func(c *StoreConfig) {
		c.Address = address
	}
}

// WithStoreMetric sets the distance metric ("L2" or "IP").
func WithStoreMetric(metric string) StoreOption {
	return func(c *StoreConfig) {
		c.Metric = metric
	}
}

// WithStoreOption sets a backend-specific option.
func WithStoreOption(key string, value interface{}) StoreOption {
	return func(c *StoreConfig) {
		c.Options[key] = value
	}
}

// StoreFactory creates a VectorStore from a StoreConfig.
type StoreFactory func(cfg *StoreConfig) (VectorStore, error)

var (
	storeFactories = make(map[string]StoreFactory)
	storeMu        sync.RWMutex
)

// RegisterStore registers a new vector store factory under the given name.
func RegisterStore(name string, factory StoreFactory) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeFactories[name] = factory
}

// NewVectorStore creates a VectorStore instance from the registered backend
// matching the configured type.
func NewVectorStore(opts ...StoreOption) (VectorStore, error) {
	cfg := &StoreConfig{
		Metric:  "L2",
		Options: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Type == "" {
		return nil, fmt.Errorf("store type must be specified")
	}

	storeMu.RLock()
	factory, ok := storeFactories[cfg.Type]
	storeMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported vector store type: %s", cfg.Type)
	}
	return factory(cfg)
}
