// Package conversation exposes the workflow to transports as a lazy
// sequence of text fragments, hiding graph events from the outer layers.
package conversation

import (
	"context"
	"io"
	"log/slog"

	"github.com/graftlabs/graft/pkg/graph"
	"github.com/graftlabs/graft/pkg/observability"
)

// Chunk is one element of a conversation's output. A non-nil Err is
// terminal: the transport converts it into its single error event and
// closes, leaving already-delivered chunks intact.
type Chunk struct {
	Text string
	Err  error
}

// Streamer runs one workflow execution per prompt.
type Streamer interface {
	Stream(ctx context.Context, prompt string) <-chan graph.Event
}

// Service adapts workflow executions into the conversation boundary.
type Service struct {
	agent   Streamer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics wires conversation outcome counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a conversation service over the given workflow.
func NewService(agent Streamer, opts ...Option) *Service {
	s := &Service{
		agent:  agent,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Converse processes one prompt and yields answer text incrementally.
// Generated answers arrive fragment by fragment; refusals arrive as a
// single chunk once the workflow settles. The channel closes after the
// final chunk. Cancelling ctx stops the underlying execution.
func (s *Service) Converse(ctx context.Context, prompt string) <-chan Chunk {
	out := make(chan Chunk)
	go func() {
		defer close(out)

		send := func(c Chunk) bool {
			select {
			case out <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}

		streamed := false
		for ev := range s.agent.Stream(ctx, prompt) {
			switch ev.Type {
			case graph.EventFragment:
				streamed = true
				if !send(Chunk{Text: ev.Fragment}) {
					return
				}
			case graph.EventFinal:
				outcome := observability.OutcomeAnswered
				if !streamed {
					// Fallback path: nothing was streamed, deliver the
					// settled answer in one piece.
					outcome = observability.OutcomeRefused
					if ev.State.Answer != "" {
						send(Chunk{Text: ev.State.Answer})
					}
				}
				s.metrics.ObserveConversation(outcome)
			case graph.EventError:
				s.logger.Error("conversation failed", "err", ev.Err)
				s.metrics.ObserveConversation(observability.OutcomeError)
				send(Chunk{Err: ev.Err})
				return
			}
		}
	}()
	return out
}
