package graph_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/graph"
)

func writeAnswer(text string) graph.Handler {
	return func(_ context.Context, _ *graph.Exec, _ domain.State) (domain.Update, error) {
		return domain.Update{Answer: domain.Text(text)}, nil
	}
}

func TestStream_EventOrder(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNode("first", func(_ context.Context, _ *graph.Exec, _ domain.State) (domain.Update, error) {
		return domain.Update{HasContext: domain.Bool(true)}, nil
	})
	b.AddNode("second", writeAnswer("done"))
	b.AddEdge("first", "second")
	b.AddEdge("second", graph.End)
	b.SetEntryPoint("first")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var types []graph.EventType
	var final *domain.State
	for ev := range compiled.Stream(context.Background(), domain.NewState("q")) {
		types = append(types, ev.Type)
		if ev.Type == graph.EventFinal {
			final = ev.State
		}
	}

	want := []graph.EventType{
		graph.EventNodeEnter, graph.EventNodeLeave,
		graph.EventNodeEnter, graph.EventNodeLeave,
		graph.EventFinal,
	}
	if len(types) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(types), types)
	}
	for i, typ := range want {
		if types[i] != typ {
			t.Errorf("Event %d: expected %s, got %s", i, typ, types[i])
		}
	}
	if final == nil || final.Answer != "done" {
		t.Errorf("Final state missing answer: %+v", final)
	}
}

func TestStream_FragmentsPrecedeFinal(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNode("speak", func(ctx context.Context, ex *graph.Exec, _ domain.State) (domain.Update, error) {
		for _, part := range []string{"Hel", "lo"} {
			if err := ex.Emit(ctx, part); err != nil {
				return domain.Update{}, err
			}
		}
		return domain.Update{Answer: domain.Text("Hello")}, nil
	})
	b.AddEdge("speak", graph.End)
	b.SetEntryPoint("speak")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var fragments []string
	sawFinal := false
	for ev := range compiled.Stream(context.Background(), domain.NewState("q")) {
		switch ev.Type {
		case graph.EventFragment:
			if sawFinal {
				t.Error("Fragment delivered after final event")
			}
			fragments = append(fragments, ev.Fragment)
		case graph.EventFinal:
			sawFinal = true
			if ev.State.Answer != "Hello" {
				t.Errorf("Expected answer 'Hello', got %q", ev.State.Answer)
			}
		}
	}
	if len(fragments) != 2 || fragments[0] != "Hel" || fragments[1] != "lo" {
		t.Errorf("Unexpected fragments: %v", fragments)
	}
	if !sawFinal {
		t.Error("No final event")
	}
}

func TestStream_ConditionalRouting(t *testing.T) {
	build := func(flag bool) *graph.Compiled {
		b := graph.NewBuilder()
		b.AddNode("decide", func(_ context.Context, _ *graph.Exec, _ domain.State) (domain.Update, error) {
			return domain.Update{HasContext: domain.Bool(flag)}, nil
		})
		b.AddNode("yes", writeAnswer("yes"))
		b.AddNode("no", writeAnswer("no"))
		b.AddConditionalEdges("decide", yesNoPredicate(), map[graph.Outcome]string{
			"yes": "yes", "no": "no",
		})
		b.AddEdge("yes", graph.End)
		b.SetEntryPoint("decide")
		compiled, err := b.Compile()
		if err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		return compiled
	}

	for _, tc := range []struct {
		flag bool
		want string
	}{
		{true, "yes"},
		{false, "no"},
	} {
		final, err := build(tc.flag).Invoke(context.Background(), domain.NewState("q"))
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if final.Answer != tc.want {
			t.Errorf("flag=%v: expected answer %q, got %q", tc.flag, tc.want, final.Answer)
		}
	}
}

func TestStream_UnmappedOutcome(t *testing.T) {
	// The predicate lies: it declares yes/no but returns a third label.
	b := graph.NewBuilder()
	b.AddNode("decide", noop)
	b.AddNode("next", noop)
	b.AddConditionalEdges("decide", graph.Predicate{
		Outcomes: []graph.Outcome{"yes", "no"},
		Eval:     func(domain.State) graph.Outcome { return "maybe" },
	}, map[graph.Outcome]string{"yes": "next", "no": "next"})
	b.AddEdge("next", graph.End)
	b.SetEntryPoint("decide")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	_, err = compiled.Invoke(context.Background(), domain.NewState("q"))
	var routeErr *graph.RoutingError
	if !errors.As(err, &routeErr) {
		t.Fatalf("Expected RoutingError, got %v", err)
	}
	if routeErr.Node != "decide" || routeErr.Outcome != "maybe" {
		t.Errorf("Unexpected routing error detail: %+v", routeErr)
	}
}

func TestStream_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	b := graph.NewBuilder()
	b.AddNode("fail", func(_ context.Context, _ *graph.Exec, _ domain.State) (domain.Update, error) {
		return domain.Update{}, boom
	})
	b.SetEntryPoint("fail")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	var last graph.Event
	count := 0
	for ev := range compiled.Stream(context.Background(), domain.NewState("q")) {
		last = ev
		count++
	}
	if last.Type != graph.EventError {
		t.Fatalf("Expected terminal error event, got %s", last.Type)
	}
	if !errors.Is(last.Err, boom) {
		t.Errorf("Expected wrapped handler error, got %v", last.Err)
	}
	if count != 2 { // enter, error
		t.Errorf("Expected 2 events, got %d", count)
	}
}

func TestStream_CycleBound(t *testing.T) {
	// Two nodes pointing at each other never terminate on their own.
	b := graph.NewBuilder()
	b.AddNode("ping", noop)
	b.AddNode("pong", noop)
	b.AddEdge("ping", "pong")
	b.AddEdge("pong", "ping")
	b.SetEntryPoint("ping")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	_, err = compiled.Invoke(context.Background(), domain.NewState("q"))
	if !errors.Is(err, graph.ErrCycleDetected) {
		t.Fatalf("Expected ErrCycleDetected, got %v", err)
	}
}

func TestStream_MergeConflict(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNode("first", writeAnswer("one"))
	b.AddNode("second", writeAnswer("two"))
	b.AddEdge("first", "second")
	b.AddEdge("second", graph.End)
	b.SetEntryPoint("first")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	_, err = compiled.Invoke(context.Background(), domain.NewState("q"))
	var conflict *graph.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got %v", err)
	}
	if conflict.Field != "answer" || conflict.FirstNode != "first" || conflict.Node != "second" {
		t.Errorf("Unexpected conflict detail: %+v", conflict)
	}
}

func TestStream_CancelMidStream(t *testing.T) {
	entered := make(chan struct{})
	b := graph.NewBuilder()
	b.AddNode("speak", func(ctx context.Context, ex *graph.Exec, _ domain.State) (domain.Update, error) {
		close(entered)
		for {
			if err := ex.Emit(ctx, "x"); err != nil {
				return domain.Update{}, err
			}
		}
	})
	b.AddEdge("speak", graph.End)
	b.SetEntryPoint("speak")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := compiled.Stream(ctx, domain.NewState("q"))

	<-events // node_enter
	<-entered
	<-events // one fragment
	cancel()

	// The sequence must close without a terminal event.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == graph.EventFinal || ev.Type == graph.EventError {
				t.Fatalf("Terminal event after cancellation: %+v", ev)
			}
		case <-deadline:
			t.Fatal("Stream did not close after cancellation")
		}
	}
}

func TestStream_StateIsolation(t *testing.T) {
	// A handler mutating its snapshot must not leak into routing state.
	b := graph.NewBuilder()
	b.AddNode("mutate", func(_ context.Context, _ *graph.Exec, s domain.State) (domain.Update, error) {
		s.Answer = "leaked"
		return domain.Update{}, nil
	})
	b.AddEdge("mutate", graph.End)
	b.SetEntryPoint("mutate")

	compiled, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	final, err := compiled.Invoke(context.Background(), domain.NewState("q"))
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if final.Answer != "" {
		t.Errorf("Handler mutation leaked into final state: %q", final.Answer)
	}
}
