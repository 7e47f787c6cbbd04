package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/graph"
)

// checkContext asks the model whether the prompt is answerable at all.
// The model is an oracle here: its reply is only scanned for the literal
// token "YES" (case-insensitive), nothing more.
func (w *Workflow) checkContext(ctx context.Context, ex *graph.Exec, state domain.State) (domain.Update, error) {
	prompt := fmt.Sprintf(
		"Does the following input contain a clear question or topic with enough context to answer?\n\n"+
			"Input: %s\n\nAnswer YES or NO.", state.Prompt)

	result, err := w.gateway.Generate(ctx, prompt)
	if err != nil {
		return domain.Update{}, err
	}
	w.usage.Record(ctx, ex.Run(), result.Usage, false)

	has := strings.Contains(strings.ToUpper(result.Text), "YES")
	ex.Logger().Debug("context check", "has_context", has)
	return domain.Update{HasContext: domain.Bool(has)}, nil
}

// retrieveDocuments consults the reference corpus. No model call, no usage.
func (w *Workflow) retrieveDocuments(ctx context.Context, ex *graph.Exec, state domain.State) (domain.Update, error) {
	snippets, err := w.retriever.Retrieve(ctx, state.Prompt)
	if err != nil {
		return domain.Update{}, fmt.Errorf("retrieval failed: %w", err)
	}
	ex.Logger().Debug("retrieval check", "matches", len(snippets))
	return domain.Update{HasDocuments: domain.Bool(len(snippets) > 0)}, nil
}

// generateAnswer streams the model's answer, forwarding each fragment the
// moment it arrives and accumulating the full text for the final state.
// The usage report rides the final chunk; it is recorded once the stream
// is exhausted.
func (w *Workflow) generateAnswer(ctx context.Context, ex *graph.Exec, state domain.State) (domain.Update, error) {
	stream, err := w.gateway.GenerateStream(ctx, state.Prompt)
	if err != nil {
		return domain.Update{}, err
	}

	var answer strings.Builder
	var input, output int
	for chunk := range stream {
		if chunk.Err != nil {
			return domain.Update{}, chunk.Err
		}
		if chunk.Usage != nil {
			input, output = chunk.Usage.InputTokens, chunk.Usage.OutputTokens
		}
		if chunk.Text != "" {
			answer.WriteString(chunk.Text)
			if err := ex.Emit(ctx, chunk.Text); err != nil {
				return domain.Update{}, err
			}
		}
	}

	w.usage.Record(ctx, ex.Run(), domain.NewUsage(w.gateway.ModelID(), input, output), true)
	return domain.Update{Answer: domain.Text(answer.String())}, nil
}

// cannotAnswer is the pure fallback terminal.
func (w *Workflow) cannotAnswer(_ context.Context, _ *graph.Exec, _ domain.State) (domain.Update, error) {
	return domain.Update{Answer: domain.Text(FallbackAnswer)}, nil
}
