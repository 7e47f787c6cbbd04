package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/graph"
	"github.com/graftlabs/graft/pkg/ports"
	"github.com/graftlabs/graft/pkg/usage"
)

// Node names of the conversation workflow.
const (
	NodeCheckContext = "check_context"
	NodeRetrieve     = "retrieve_documents"
	NodeGenerate     = "generate_answer"
	NodeCannotAnswer = "cannot_answer"
)

// Outcome labels produced by the two decision nodes.
const (
	OutcomeHasContext   graph.Outcome = "has_context"
	OutcomeNoContext    graph.Outcome = "no_context"
	OutcomeHasDocuments graph.Outcome = "has_documents"
	OutcomeNoDocuments  graph.Outcome = "no_documents"
)

// FallbackAnswer is the fixed refusal written by the cannot_answer node.
const FallbackAnswer = "I'm sorry, but I cannot provide an answer based on the given input."

// RunName labels trace runs started for conversation executions.
const RunName = "conversation"

// Workflow owns one compiled conversation graph plus the collaborators its
// nodes consume. A Workflow is built once and shared; every Stream call
// allocates fresh per-request state.
type Workflow struct {
	gateway   ports.ModelGateway
	retriever ports.Retriever
	usage     *usage.Aggregator
	sink      ports.TraceSink
	logger    *slog.Logger
	compiled  *graph.Compiled
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the workflow logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) { w.logger = logger }
}

// WithTraceSink wires an external trace sink; each execution starts one run.
func WithTraceSink(sink ports.TraceSink) Option {
	return func(w *Workflow) { w.sink = sink }
}

// WithAggregator replaces the default usage aggregator.
func WithAggregator(a *usage.Aggregator) Option {
	return func(w *Workflow) { w.usage = a }
}

// New builds and compiles the conversation workflow.
func New(gateway ports.ModelGateway, retriever ports.Retriever, opts ...Option) (*Workflow, error) {
	if gateway == nil {
		return nil, fmt.Errorf("agent: nil model gateway")
	}
	if retriever == nil {
		return nil, fmt.Errorf("agent: nil retriever")
	}

	w := &Workflow{
		gateway:   gateway,
		retriever: retriever,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.usage == nil {
		w.usage = usage.New(usage.WithLogger(w.logger))
	}

	compiled, err := buildGraph(w)
	if err != nil {
		return nil, err
	}
	w.compiled = compiled
	return w, nil
}

func buildGraph(w *Workflow) (*graph.Compiled, error) {
	b := graph.NewBuilder()

	b.AddNode(NodeCheckContext, w.checkContext)
	b.AddNode(NodeRetrieve, w.retrieveDocuments)
	b.AddNode(NodeGenerate, w.generateAnswer)
	b.AddNode(NodeCannotAnswer, w.cannotAnswer)

	b.AddConditionalEdges(NodeCheckContext, graph.Predicate{
		Outcomes: []graph.Outcome{OutcomeHasContext, OutcomeNoContext},
		Eval:     contextOutcome,
	}, map[graph.Outcome]string{
		OutcomeHasContext: NodeRetrieve,
		OutcomeNoContext:  NodeCannotAnswer,
	})

	b.AddConditionalEdges(NodeRetrieve, graph.Predicate{
		Outcomes: []graph.Outcome{OutcomeHasDocuments, OutcomeNoDocuments},
		Eval:     documentsOutcome,
	}, map[graph.Outcome]string{
		OutcomeHasDocuments: NodeGenerate,
		OutcomeNoDocuments:  NodeCannotAnswer,
	})

	b.AddEdge(NodeGenerate, graph.End)
	b.SetEntryPoint(NodeCheckContext)

	return b.Compile()
}

func contextOutcome(s domain.State) graph.Outcome {
	if s.HasContext != nil && *s.HasContext {
		return OutcomeHasContext
	}
	return OutcomeNoContext
}

func documentsOutcome(s domain.State) graph.Outcome {
	if s.HasDocuments != nil && *s.HasDocuments {
		return OutcomeHasDocuments
	}
	return OutcomeNoDocuments
}

// Stream executes the workflow for one prompt, returning the execution's
// event sequence. When a trace sink is wired, a run is started and carried
// through the execution for usage attribution; a sink failure degrades to
// an untraced run.
func (w *Workflow) Stream(ctx context.Context, prompt string) <-chan graph.Event {
	return w.compiled.Stream(ctx, domain.NewState(prompt), w.execOptions(ctx)...)
}

// Ask runs the workflow to completion and returns the final answer.
func (w *Workflow) Ask(ctx context.Context, prompt string) (string, error) {
	final, err := w.compiled.Invoke(ctx, domain.NewState(prompt), w.execOptions(ctx)...)
	if err != nil {
		return "", err
	}
	return final.Answer, nil
}

// Graph exposes the compiled topology for visualization and introspection.
func (w *Workflow) Graph() *graph.Compiled { return w.compiled }

func (w *Workflow) execOptions(ctx context.Context) []graph.StreamOption {
	opts := []graph.StreamOption{graph.WithLogger(w.logger)}
	if w.sink == nil {
		return opts
	}
	run, err := w.sink.StartRun(ctx, RunName)
	if err != nil {
		w.logger.Warn("trace run not started", "err", err)
		return opts
	}
	return append(opts, graph.WithRun(run))
}
