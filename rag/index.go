package rag

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/askcampus/campusrag/rag/providers"
)

// Indexer embeds chunk records and upserts them into a vector store in
// batches. Hosted embedding and vector services enforce per-minute token
// limits, so batches are paced with a rate limiter rather than sent
// back-to-back.
type Indexer struct {
	store     VectorStore
	embedder  providers.Embedder
	batchSize int
	limiter   *rate.Limiter
	logger    Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithBatchSize sets how many records each upsert batch carries.
func WithBatchSize(size int) IndexerOption {
	return func(ix *Indexer) {
		ix.batchSize = size
	}
}

// WithBatchRate paces batches at the given number of batches per second.
// Values below one slow the pipeline down, e.g. 0.4 sends a batch every
// 2.5 seconds.
func WithBatchRate(batchesPerSecond float64) IndexerOption {
	return func(ix *Indexer) {
		ix.limiter = rate.NewLimiter(rate.Limit(batchesPerSecond), 1)
	}
}

// WithIndexerLogger overrides the logger used for progress reporting.
func WithIndexerLogger(logger Logger) IndexerOption {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// NewIndexer creates an Indexer over the given store and embedder.
// Defaults: batches of 50 records, one batch every 2.5 seconds.
func NewIndexer(store VectorStore, embedder providers.Embedder, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		store:     store,
		embedder:  embedder,
		batchSize: 50,
		limiter:   rate.NewLimiter(rate.Limit(0.4), 1),
		logger:    GlobalLogger,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// EnsureCollection creates the target collection sized for the embedder's
// vector dimension.
func (ix *Indexer) EnsureCollection(ctx context.Context, collection string) error {
	dim, err := ix.embedder.Dimension()
	if err != nil {
		return fmt.Errorf("failed to resolve embedding dimension: %w", err)
	}
	return ix.store.EnsureCollection(ctx, collection, dim)
}

// Index embeds and upserts all records. It returns the number of records
// written; a failing batch aborts the run so a re-run can pick up where the
// previous one stopped (upserts are idempotent by record ID).
func (ix *Indexer) Index(ctx context.Context, collection string, records []ChunkRecord) (int, error) {
	total := 0
	batches := (len(records) + ix.batchSize - 1) / ix.batchSize

	for i := 0; i < len(records); i += ix.batchSize {
		if err := ix.limiter.Wait(ctx); err != nil {
			return total, err
		}

		end := min(i+ix.batchSize, len(records))
		batch := records[i:end]

		texts := make([]string, len(batch))
		for j, rec := range batch {
			texts[j] = rec.Text
		}
		vectors, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return total, fmt.Errorf("failed to embed batch %d/%d: %w", i/ix.batchSize+1, batches, err)
		}

		if err := ix.store.Upsert(ctx, collection, batch, vectors); err != nil {
			return total, fmt.Errorf("failed to upsert batch %d/%d: %w", i/ix.batchSize+1, batches, err)
		}

		total += len(batch)
		ix.logger.Info("upserted batch", "batch", i/ix.batchSize+1, "batches", batches, "records", len(batch))
	}

	return total, nil
}
