package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graftlabs/graft/pkg/conversation"
	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/graph"
)

// scriptedStreamer replays a fixed event sequence.
type scriptedStreamer struct {
	events []graph.Event
}

func (s *scriptedStreamer) Stream(ctx context.Context, _ string) <-chan graph.Event {
	out := make(chan graph.Event)
	go func() {
		defer close(out)
		for _, ev := range s.events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func finalEvent(answer string) graph.Event {
	state := domain.NewState("q")
	state.Answer = answer
	return graph.Event{Type: graph.EventFinal, State: &state}
}

func drain(t *testing.T, ch <-chan conversation.Chunk) (texts []string, failure error) {
	t.Helper()
	for chunk := range ch {
		if chunk.Err != nil {
			failure = chunk.Err
			continue
		}
		texts = append(texts, chunk.Text)
	}
	return texts, failure
}

func TestConverse_ForwardsFragments(t *testing.T) {
	svc := conversation.NewService(&scriptedStreamer{events: []graph.Event{
		{Type: graph.EventNodeEnter, Node: "a"},
		{Type: graph.EventFragment, Fragment: "Hel"},
		{Type: graph.EventFragment, Fragment: "lo"},
		{Type: graph.EventNodeLeave, Node: "a"},
		finalEvent("Hello"),
	}})

	texts, failure := drain(t, svc.Converse(context.Background(), "q"))
	require.NoError(t, failure)
	assert.Equal(t, []string{"Hel", "lo"}, texts, "final answer is not re-sent after fragments")
}

func TestConverse_FallbackArrivesWhole(t *testing.T) {
	svc := conversation.NewService(&scriptedStreamer{events: []graph.Event{
		{Type: graph.EventNodeEnter, Node: "a"},
		{Type: graph.EventNodeLeave, Node: "a"},
		finalEvent("I cannot answer that."),
	}})

	texts, failure := drain(t, svc.Converse(context.Background(), "q"))
	require.NoError(t, failure)
	assert.Equal(t, []string{"I cannot answer that."}, texts)
}

func TestConverse_ErrorIsTerminal(t *testing.T) {
	boom := errors.New("boom")
	svc := conversation.NewService(&scriptedStreamer{events: []graph.Event{
		{Type: graph.EventFragment, Fragment: "partial"},
		{Type: graph.EventError, Err: boom},
		finalEvent("never delivered"),
	}})

	var texts []string
	var failure error
	for chunk := range svc.Converse(context.Background(), "q") {
		if chunk.Err != nil {
			failure = chunk.Err
			continue
		}
		if failure != nil {
			t.Fatalf("Chunk delivered after terminal error: %q", chunk.Text)
		}
		texts = append(texts, chunk.Text)
	}

	assert.Equal(t, []string{"partial"}, texts)
	assert.ErrorIs(t, failure, boom)
}

func TestConverse_CancelStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := conversation.NewService(&scriptedStreamer{events: []graph.Event{
		{Type: graph.EventFragment, Fragment: "one"},
		{Type: graph.EventFragment, Fragment: "two"},
		finalEvent("onetwo"),
	}})

	ch := svc.Converse(ctx, "q")
	first := <-ch
	assert.Equal(t, "one", first.Text)
	cancel()

	for range ch { // channel must close
	}
}
