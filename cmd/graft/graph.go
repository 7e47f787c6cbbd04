package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graftlabs/graft/internal/config"
	"github.com/graftlabs/graft/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Inspects the compiled workflow and outputs a Mermaid diagram (graph TD) representing the decision logic.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		engine, err := buildEngine(cmd.Context(), cfg)
		if err != nil {
			fmt.Printf("Error initializing graft: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(engine.Graph())
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
