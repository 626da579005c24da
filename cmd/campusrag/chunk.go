package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/askcampus/campusrag/rag"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Clean and chunk crawled pages into indexable records",
	Long: `Reads the aggregate pages file written by crawl, cleans each page,
splits it into overlapping chunks and writes chunk records for the index
command. Local documents under the configured docs directory (.txt, .md,
.pdf) are ingested alongside the crawled pages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := rag.LoadPages(cfg.AggregatePath)
		if err != nil {
			return err
		}

		if cfg.DocsDir != "" {
			if _, err := os.Stat(cfg.DocsDir); err == nil {
				docs, err := rag.LoadDocumentDir(cfg.DocsDir)
				if err != nil {
					return err
				}
				pages = append(pages, rag.DocumentsToPages(docs)...)
				rag.GlobalLogger.Info("ingested local documents", "count", len(docs), "dir", cfg.DocsDir)
			}
		}

		chunker, err := newChunker()
		if err != nil {
			return err
		}

		records := rag.Preprocess(pages, chunker)
		if err := rag.SaveChunks(cfg.ChunksPath, records); err != nil {
			return err
		}
		rag.GlobalLogger.Info("saved chunks", "pages", len(pages), "chunks", len(records), "path", cfg.ChunksPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}
