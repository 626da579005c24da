package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question, or start an interactive prompt",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant, store, err := newAssistant(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			answer, err := assistant.Ask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		}

		fmt.Println("campusrag - type 'exit' to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("Ask your question: ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" {
				break
			}

			answer, err := assistant.Ask(cmd.Context(), question)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("\n%s\n\n", answer)
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
