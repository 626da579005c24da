package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/askcampus/campusrag/rag"
)

var dropCollection bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed chunk records and upsert them into the vector store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireEmbedding(); err != nil {
			return err
		}

		records, err := rag.LoadChunks(cfg.ChunksPath)
		if err != nil {
			return err
		}

		store, err := newStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if dropCollection {
			exists, err := store.HasCollection(cmd.Context(), cfg.Collection)
			if err != nil {
				return err
			}
			if exists {
				rag.GlobalLogger.Warn("dropping existing collection", "collection", cfg.Collection)
				if err := store.DropCollection(cmd.Context(), cfg.Collection); err != nil {
					return err
				}
			}
		}

		embedder, err := newEmbedder()
		if err != nil {
			return err
		}

		indexer := rag.NewIndexer(store, embedder,
			rag.WithBatchSize(cfg.BatchSize),
			rag.WithBatchRate(cfg.BatchRate),
		)
		if err := indexer.EnsureCollection(cmd.Context(), cfg.Collection); err != nil {
			return err
		}

		total, err := indexer.Index(cmd.Context(), cfg.Collection, records)
		if err != nil {
			return err
		}

		if flusher, ok := store.(interface {
			Flush(ctx context.Context, collection string) error
		}); ok {
			if err := flusher.Flush(cmd.Context(), cfg.Collection); err != nil {
				return err
			}
		}

		rag.GlobalLogger.Info("indexing complete", "records", total, "collection", cfg.Collection)
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&dropCollection, "drop", false, "drop the collection before indexing")
	rootCmd.AddCommand(indexCmd)
}
