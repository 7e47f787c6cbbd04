package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/ports"
)

// stepFactor bounds traversal at stepFactor * node count. Generous for the
// shipped acyclic topology; small enough to catch a cyclic regression fast.
const stepFactor = 4

// Handler is a node's unit of work. It receives a snapshot of the current
// state and returns a partial update. Streaming handlers push fragments
// through ex.Emit before returning; each Emit suspends until the consumer
// has taken the fragment, which is what makes partial answers visible
// before the handler completes.
type Handler func(ctx context.Context, ex *Exec, state domain.State) (domain.Update, error)

// EventType discriminates scheduler output events.
type EventType string

const (
	EventNodeEnter EventType = "node_enter"
	EventNodeLeave EventType = "node_leave"
	EventFragment  EventType = "fragment"
	EventFinal     EventType = "final"
	EventError     EventType = "error"
)

// Event is one element of an execution's output sequence. The sequence is
// finite and non-restartable: fragments and node markers in traversal
// order, then exactly one final or error event, then close. A cancelled
// execution closes without a terminal event.
type Event struct {
	Type     EventType
	Node     string
	Fragment string
	State    *domain.State
	Err      error
}

// Exec is the per-execution scope handed to handlers. It carries the
// optional trace run explicitly instead of hiding it in ambient globals.
type Exec struct {
	run    ports.Run
	logger *slog.Logger
	node   string
	emit   func(ctx context.Context, node, fragment string) error
}

// Run returns the active trace run, or nil when tracing is not wired.
func (e *Exec) Run() ports.Run { return e.run }

// Logger returns the execution logger.
func (e *Exec) Logger() *slog.Logger { return e.logger }

// Emit forwards one fragment to the execution's consumer. It blocks until
// the consumer takes the fragment or ctx is cancelled.
func (e *Exec) Emit(ctx context.Context, fragment string) error {
	return e.emit(ctx, e.node, fragment)
}

// StreamOption configures a single execution.
type StreamOption func(*execConfig)

type execConfig struct {
	run    ports.Run
	logger *slog.Logger
}

// WithRun attaches a trace run handle to the execution.
func WithRun(run ports.Run) StreamOption {
	return func(c *execConfig) { c.run = run }
}

// WithLogger sets the execution logger.
func WithLogger(logger *slog.Logger) StreamOption {
	return func(c *execConfig) { c.logger = logger }
}

// Stream runs one traversal over the compiled graph, starting from the
// entry node with the given initial state. Events are delivered through an
// unbuffered channel: the scheduler does not advance past a fragment until
// the consumer has read it. Cancelling ctx stops traversal at the next
// suspension point; the channel closes with no further events.
func (c *Compiled) Stream(ctx context.Context, initial domain.State, opts ...StreamOption) <-chan Event {
	cfg := execConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		c.run(ctx, initial, cfg, out)
	}()
	return out
}

func (c *Compiled) run(ctx context.Context, initial domain.State, cfg execConfig, out chan<- Event) {
	send := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	ex := &Exec{
		run:    cfg.run,
		logger: cfg.logger,
		emit: func(ctx context.Context, node, fragment string) error {
			select {
			case out <- Event{Type: EventFragment, Node: node, Fragment: fragment}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}

	state := initial.Clone()
	written := make(map[string]string)
	limit := stepFactor * len(c.nodes)
	current := c.entry

	for steps := 0; ; steps++ {
		if steps >= limit {
			cfg.logger.Error("traversal aborted", "node", current, "steps", steps)
			send(Event{Type: EventError, Node: current,
				Err: fmt.Errorf("node %q after %d steps: %w", current, steps, ErrCycleDetected)})
			return
		}

		if !send(Event{Type: EventNodeEnter, Node: current}) {
			return
		}
		ex.node = current

		update, err := c.nodes[current](ctx, ex, state.Clone())
		if err != nil {
			if ctx.Err() != nil {
				// Consumer went away mid-handler; nothing left to tell it.
				return
			}
			cfg.logger.Error("node handler failed", "node", current, "err", err)
			send(Event{Type: EventError, Node: current, Err: err})
			return
		}

		for _, field := range update.Fields() {
			if first, dup := written[field]; dup {
				err := &ConflictError{Field: field, Node: current, FirstNode: first}
				cfg.logger.Error("state merge rejected", "err", err)
				send(Event{Type: EventError, Node: current, Err: err})
				return
			}
			written[field] = current
		}
		update.Apply(&state)

		if !send(Event{Type: EventNodeLeave, Node: current}) {
			return
		}

		next, terminal, err := c.route(current, state)
		if err != nil {
			cfg.logger.Error("routing failed", "node", current, "err", err)
			send(Event{Type: EventError, Node: current, Err: err})
			return
		}
		if terminal {
			final := state.Clone()
			send(Event{Type: EventFinal, Node: current, State: &final})
			return
		}
		current = next
	}
}

// route resolves the node to visit after current, or terminal=true when
// traversal ends there.
func (c *Compiled) route(current string, state domain.State) (next string, terminal bool, err error) {
	r, ok := c.routes[current]
	if !ok {
		return "", true, nil
	}
	switch r.kind {
	case routeAlways:
		if r.target == End {
			return "", true, nil
		}
		return r.target, false, nil
	case routeConditional:
		outcome := r.pred.Eval(state.Clone())
		target, ok := r.targets[outcome]
		if !ok {
			// Only reachable when a predicate returns an undeclared label.
			return "", false, &RoutingError{Node: current, Outcome: outcome}
		}
		if target == End {
			return "", true, nil
		}
		return target, false, nil
	}
	return "", true, nil
}

// Invoke runs the graph to completion and returns the final state,
// discarding intermediate events. Convenient for callers that do not
// stream, and for tests.
func (c *Compiled) Invoke(ctx context.Context, initial domain.State, opts ...StreamOption) (domain.State, error) {
	for ev := range c.Stream(ctx, initial, opts...) {
		switch ev.Type {
		case EventFinal:
			return *ev.State, nil
		case EventError:
			return domain.State{}, ev.Err
		}
	}
	return domain.State{}, ctx.Err()
}
