package graft

import (
	"context"
	"log/slog"

	"github.com/graftlabs/graft/internal/adapters/memory"
	"github.com/graftlabs/graft/internal/logging"
	"github.com/graftlabs/graft/pkg/agent"
	"github.com/graftlabs/graft/pkg/conversation"
	"github.com/graftlabs/graft/pkg/graph"
	"github.com/graftlabs/graft/pkg/observability"
	"github.com/graftlabs/graft/pkg/ports"
	"github.com/graftlabs/graft/pkg/usage"
)

// Version is the library version reported by the CLI and the MCP server.
const Version = "0.1.0"

// Engine is the high-level entry point for the Graft library. It wraps the
// compiled conversation workflow and the conversation boundary behind a
// simplified API for consumers.
type Engine struct {
	workflow *agent.Workflow
	service  *conversation.Service
}

type settings struct {
	logger      *slog.Logger
	retriever   ports.Retriever
	sink        ports.TraceSink
	metrics     *observability.Metrics
	temperature float64
}

// Option defines a functional option for configuring the Engine.
type Option func(*settings)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithRetriever injects a custom reference corpus, bypassing the built-in one.
func WithRetriever(r ports.Retriever) Option {
	return func(s *settings) { s.retriever = r }
}

// WithTraceSink wires an external trace sink for usage metadata.
func WithTraceSink(sink ports.TraceSink) Option {
	return func(s *settings) { s.sink = sink }
}

// WithMetrics wires Prometheus collectors for model calls and conversations.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithTemperature records the sampling temperature in usage metadata.
func WithTemperature(t float64) Option {
	return func(s *settings) { s.temperature = t }
}

// New assembles an engine around the given model gateway. The graph is
// compiled here; wiring defects fail construction, never a request.
func New(gateway ports.ModelGateway, opts ...Option) (*Engine, error) {
	cfg := settings{
		logger:      logging.NewNop(),
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.retriever == nil {
		cfg.retriever = memory.Default()
	}

	aggregator := usage.New(
		usage.WithLogger(cfg.logger),
		usage.WithMetrics(cfg.metrics),
		usage.WithTemperature(cfg.temperature),
	)

	workflowOpts := []agent.Option{
		agent.WithLogger(cfg.logger),
		agent.WithAggregator(aggregator),
	}
	if cfg.sink != nil {
		workflowOpts = append(workflowOpts, agent.WithTraceSink(cfg.sink))
	}

	workflow, err := agent.New(gateway, cfg.retriever, workflowOpts...)
	if err != nil {
		return nil, err
	}

	service := conversation.NewService(workflow,
		conversation.WithLogger(cfg.logger),
		conversation.WithMetrics(cfg.metrics),
	)

	return &Engine{workflow: workflow, service: service}, nil
}

// Converse processes one prompt and yields the answer incrementally. See
// conversation.Service.Converse for the chunk contract.
func (e *Engine) Converse(ctx context.Context, prompt string) <-chan conversation.Chunk {
	return e.service.Converse(ctx, prompt)
}

// Stream exposes the raw workflow event sequence for one prompt.
func (e *Engine) Stream(ctx context.Context, prompt string) <-chan graph.Event {
	return e.workflow.Stream(ctx, prompt)
}

// Ask runs the workflow to completion and returns the final answer.
func (e *Engine) Ask(ctx context.Context, prompt string) (string, error) {
	return e.workflow.Ask(ctx, prompt)
}

// Graph exposes the compiled topology for visualization tooling.
func (e *Engine) Graph() *graph.Compiled {
	return e.workflow.Graph()
}
