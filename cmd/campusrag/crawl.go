package main

import (
	"github.com/spf13/cobra"

	"github.com/askcampus/campusrag/crawler"
	"github.com/askcampus/campusrag/rag"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the configured site and save raw pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireCrawl(); err != nil {
			return err
		}

		opts := []crawler.Option{
			crawler.WithMaxPages(cfg.MaxPages),
			crawler.WithMinWords(cfg.MinWords),
			crawler.WithRequestsPerSecond(cfg.RequestsPerSecond),
		}
		if cfg.UserAgent != "" {
			opts = append(opts, crawler.WithUserAgent(cfg.UserAgent))
		}
		if len(cfg.Seeds) > 0 {
			opts = append(opts, crawler.WithSeeds(cfg.Seeds...))
		}

		c, err := crawler.New(cfg.BaseURL, opts...)
		if err != nil {
			return err
		}

		pages, stats, err := c.Run(cmd.Context())
		// An interrupted crawl still writes what it collected.
		if len(pages) > 0 {
			if werr := crawler.WriteOutputs(pages, stats, cfg.PagesDir, cfg.AggregatePath, cfg.StatsPath); werr != nil {
				return werr
			}
			rag.GlobalLogger.Info("saved crawl output", "pages", len(pages), "aggregate", cfg.AggregatePath)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}
