// Command campusrag runs the content pipeline and the assistant server:
// crawl the site, chunk the pages, index the chunks, then answer questions
// over HTTP or an interactive prompt.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
