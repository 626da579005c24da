package main

import (
	"context"
	"fmt"
	"time"

	"github.com/askcampus/campusrag"
	"github.com/askcampus/campusrag/rag"
	"github.com/askcampus/campusrag/rag/providers"
)

// newStore builds and connects the configured vector store.
func newStore(ctx context.Context) (rag.VectorStore, error) {
	store, err := rag.NewVectorStore(
		rag.WithStoreType(cfg.StoreType),
		rag.WithStoreAddress(cfg.StoreAddress),
		rag.WithStoreMetric(cfg.Metric),
	)
	if err != nil {
		return nil, err
	}
	if err := store.Connect(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newEmbedder() (providers.Embedder, error) {
	opts := []rag.EmbedderOption{
		rag.SetProvider(cfg.EmbeddingProvider),
		rag.SetModel(cfg.EmbeddingModel),
		rag.SetAPIKey(cfg.EmbeddingAPIKey),
		rag.SetEmbedderTimeout(30 * time.Second),
	}
	if cfg.EmbeddingBaseURL != "" {
		opts = append(opts, rag.SetBaseURL(cfg.EmbeddingBaseURL))
	}
	if cfg.EmbeddingDimension > 0 {
		opts = append(opts, rag.SetDimension(cfg.EmbeddingDimension))
	}
	return rag.NewEmbedder(opts...)
}

func newChunker() (rag.Chunker, error) {
	opts := []rag.TextChunkerOption{
		rag.WithChunkSize(cfg.ChunkSize),
		rag.WithChunkOverlap(cfg.ChunkOverlap),
	}
	if cfg.TokenEncoding != "" {
		counter, err := rag.NewTikTokenCounter(cfg.TokenEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		opts = append(opts, rag.WithTokenCounter(counter))
	}
	return rag.NewTextChunker(opts...)
}

// newAssistant wires store, embedder, retriever and LLM client together for
// the ask and serve commands.
func newAssistant(ctx context.Context) (*campusrag.Assistant, rag.VectorStore, error) {
	if err := cfg.RequireEmbedding(); err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireLLM(); err != nil {
		return nil, nil, err
	}

	store, err := newStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := newEmbedder()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	retriever, err := rag.NewRetriever(store, embedder,
		rag.WithCollection(cfg.Collection),
		rag.WithTopK(cfg.TopK),
		rag.WithMinScore(cfg.MinScore),
	)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	assistant, err := campusrag.NewAssistant(retriever, campusrag.AssistantConfig{
		APIKey:    cfg.LLMAPIKey,
		BaseURL:   cfg.LLMBaseURL,
		Model:     cfg.LLMModel,
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return assistant, store, nil
}
