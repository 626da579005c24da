package main

import (
	"github.com/spf13/cobra"

	"github.com/askcampus/campusrag/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant, store, err := newAssistant(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		srv := server.New(assistant, cfg.IndexPath)
		return srv.Run(cmd.Context(), cfg.ListenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
