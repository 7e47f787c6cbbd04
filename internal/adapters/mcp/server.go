// Package mcp exposes the workflow as a Model Context Protocol server, so
// agent hosts can call the conversation pipeline as a tool.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	graphview "github.com/graftlabs/graft/internal/presentation/graph"
	"github.com/graftlabs/graft/pkg/graph"
)

// Engine is the workflow surface the MCP server publishes.
type Engine interface {
	Ask(ctx context.Context, prompt string) (string, error)
	Graph() *graph.Compiled
}

// Server wraps the engine and exposes it over MCP.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server for the given engine.
func NewServer(engine Engine, version string) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("graft-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	converseTool := mcp.NewTool("converse",
		mcp.WithDescription("Route a question through the decision workflow and return the answer, or a refusal when the question lacks context or reference material."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The question to answer")),
	)
	s.mcpServer.AddTool(converseTool, s.handleConverse)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the workflow topology as a Mermaid flowchart."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graphview.GenerateMermaid(s.engine.Graph())), nil
	})
}

func (s *Server) handleConverse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answer, err := s.engine.Ask(ctx, prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("converse failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}
