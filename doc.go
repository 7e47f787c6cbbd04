// Package graft is a decision workflow engine for conversational answering.
//
// A question is routed through a compiled directed graph: a context check
// classifies whether the question is answerable, a retrieval step looks up
// reference material, and the outcome selects between a streamed generated
// answer and a polite refusal. The graph machinery lives in pkg/graph and is
// reusable on its own; pkg/agent wires the concrete conversation workflow.
//
// Basic usage:
//
//	gateway, err := genai.New(ctx, apiKey, model)
//	if err != nil { ... }
//	engine, err := graft.New(gateway)
//	if err != nil { ... }
//	answer, err := engine.Ask(ctx, "What is LangGraph used for?")
//
// For incremental output use Converse, which yields answer fragments as the
// model produces them.
package graft
