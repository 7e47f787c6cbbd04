package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graftlabs/graft/internal/config"
	"github.com/graftlabs/graft/internal/presentation/tui"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and stream the answer",
	Long: `Runs one question through the decision workflow and prints the answer.
Fragments are streamed as the model produces them; on an interactive terminal
the final answer is rendered as Markdown instead.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prompt := strings.Join(args, " ")

		cfg := config.Load()
		engine, err := buildEngine(cmd.Context(), cfg)
		if err != nil {
			fmt.Printf("Error initializing graft: %v\n", err)
			os.Exit(1)
		}

		interactive := tui.IsInteractive()

		var answer strings.Builder
		for chunk := range engine.Converse(cmd.Context(), prompt) {
			if chunk.Err != nil {
				fmt.Fprintf(os.Stderr, "\nError: %v\n", chunk.Err)
				os.Exit(1)
			}
			if interactive {
				answer.WriteString(chunk.Text)
				continue
			}
			fmt.Print(chunk.Text)
		}

		if !interactive {
			fmt.Println()
			return
		}

		render := tui.NewRenderer()
		out, err := render(answer.String())
		if err != nil {
			fmt.Println(answer.String())
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
