package main

import (
	"github.com/spf13/cobra"

	"github.com/askcampus/campusrag/config"
	"github.com/askcampus/campusrag/rag"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "campusrag",
	Short:         "Retrieval-augmented assistant for institutional web content",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		rag.SetGlobalLogLevel(cfg.LogLevel)
		return nil
	},
}
