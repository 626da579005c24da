package rag

import (
	"context"
	"fmt"

	"github.com/askcampus/campusrag/rag/providers"
)

// Retriever handles semantic search with a reusable configuration: it embeds
// the query, searches the vector store and filters results by score.
type Retriever struct {
	store    VectorStore
	embedder providers.Embedder
	config   RetrieverConfig
}

// RetrieverConfig holds settings for the retrieval process.
type RetrieverConfig struct {
	// Collection is the vector collection to search.
	Collection string
	// TopK is the maximum number of results to return.
	TopK int
	// MinScore drops results scoring below the threshold. With an L2 metric
	// scores are distances, so the filter is disabled unless the store uses
	// a similarity metric; zero disables it either way.
	MinScore float64
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*RetrieverConfig)

// WithCollection sets the collection to search.
func WithCollection(name string) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.Collection = name
	}
}

// WithTopK sets the maximum number of results.
func WithTopK(k int) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.TopK = k
	}
}

// WithMinScore sets the minimum similarity score.
func WithMinScore(score float64) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.MinScore = score
	}
}

// NewRetriever creates a Retriever over a connected store and embedder.
// Defaults: collection "documents", top 5 results, no score filter.
func NewRetriever(store VectorStore, embedder providers.Embedder, opts ...RetrieverOption) (*Retriever, error) {
	if store == nil {
		return nil, fmt.Errorf("retriever requires a vector store")
	}
	if embedder == nil {
		return nil, fmt.Errorf("retriever requires an embedder")
	}

	cfg := RetrieverConfig{
		Collection: "documents",
		TopK:       5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", cfg.TopK)
	}

	return &Retriever{store: store, embedder: embedder, config: cfg}, nil
}

// Retrieve finds chunks similar to the query. An empty collection or a query
// with no hits yields an empty slice and no error.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]SearchResult, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	results, err := r.store.Search(ctx, r.config.Collection, vectors[0], r.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if r.config.MinScore <= 0 {
		return results, nil
	}
	filtered := results[:0]
	for _, res := range results {
		if res.Score >= r.config.MinScore {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}
