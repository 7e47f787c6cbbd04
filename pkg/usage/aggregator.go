package usage

import (
	"context"
	"io"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/observability"
	"github.com/graftlabs/graft/pkg/ports"
)

// Metadata is the structured record attached to a trace run for one model
// invocation. The mapstructure tags define the wire keys trace sinks see.
type Metadata struct {
	ModelName        string           `mapstructure:"model_name"`
	ModelType        string           `mapstructure:"model_type"`
	Provider         string           `mapstructure:"provider"`
	Usage            TokenCounts      `mapstructure:"usage_metadata"`
	InvocationParams InvocationParams `mapstructure:"invocation_params"`
}

// TokenCounts carries the token cost of one call.
type TokenCounts struct {
	InputTokens  int `mapstructure:"input_tokens"`
	OutputTokens int `mapstructure:"output_tokens"`
	TotalTokens  int `mapstructure:"total_tokens"`
}

// InvocationParams records how the model was called.
type InvocationParams struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	Streaming   bool    `mapstructure:"streaming"`
}

// Aggregator records one usage report per model call and attaches it to
// the execution's trace run when one is present. Recording is best-effort:
// a sink failure is logged and swallowed, never surfaced to the workflow.
type Aggregator struct {
	logger      *slog.Logger
	metrics     *observability.Metrics
	provider    string
	temperature float64
}

// Option configures the aggregator.
type Option func(*Aggregator)

// WithLogger sets the aggregator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = logger }
}

// WithMetrics wires the Prometheus collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// WithTemperature records the sampling temperature in invocation params.
func WithTemperature(t float64) Option {
	return func(a *Aggregator) { a.temperature = t }
}

// New creates an aggregator. The default provider tag matches the Gemini
// gateway; the defaults are a no-op logger and no metrics.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		provider:    "google_genai",
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record accounts for one model call. The run handle may be nil; the token
// counters are updated either way. Streaming selects the call-mode label.
func (a *Aggregator) Record(ctx context.Context, run ports.Run, usage domain.Usage, streaming bool) {
	mode := observability.ModeGenerate
	if streaming {
		mode = observability.ModeStream
	}
	a.metrics.ObserveUsage(usage, mode)

	if run == nil {
		a.logger.Debug("no active trace run, usage not attached", "model", usage.Model)
		return
	}

	meta := Metadata{
		ModelName: usage.Model,
		ModelType: "llm",
		Provider:  a.provider,
		Usage: TokenCounts{
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalTokens:  usage.TotalTokens,
		},
		InvocationParams: InvocationParams{
			Model:       usage.Model,
			Temperature: a.temperature,
			Streaming:   streaming,
		},
	}

	var payload map[string]any
	if err := mapstructure.Decode(meta, &payload); err != nil {
		a.logger.Warn("usage metadata encoding failed", "err", err)
		return
	}
	if err := run.AddMetadata(ctx, payload); err != nil {
		a.logger.Warn("trace sink rejected usage metadata", "run", run.ID(), "err", err)
	}
}
