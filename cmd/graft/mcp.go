package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/graftlabs/graft"
	"github.com/graftlabs/graft/internal/adapters/mcp"
	"github.com/graftlabs/graft/internal/config"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the workflow engine as an MCP Server over stdio.
This allows AI agents (like Claude Desktop) to call the conversation
pipeline as a tool.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		engine, err := buildEngine(cmd.Context(), cfg)
		if err != nil {
			log.Fatalf("Error initializing graft: %v", err)
		}

		srv := mcp.NewServer(engine, graft.Version)

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		slog.Info("Starting Graft MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			slog.Error("MCP Server execution failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
