// Package testutils provides stub collaborators for workflow tests: a
// scriptable model gateway, a fixed retriever, and a recording trace sink.
package testutils

import (
	"context"
	"sync"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/ports"
)

// StubGateway is a scriptable ModelGateway. Single-shot calls return
// GenerateText with GenerateUsage; streaming calls replay StreamChunks in
// order. Call counts are recorded for assertions.
type StubGateway struct {
	Model         string
	GenerateText  string
	GenerateUsage domain.Usage
	GenerateErr   error
	StreamChunks  []ports.StreamChunk
	StreamErr     error

	mu            sync.Mutex
	generateCalls int
	streamCalls   int
}

// NewStubGateway creates a gateway stub for the given model id.
func NewStubGateway(model string) *StubGateway {
	return &StubGateway{Model: model}
}

func (g *StubGateway) ModelID() string { return g.Model }

func (g *StubGateway) Generate(_ context.Context, _ string) (*ports.GenerateResult, error) {
	g.mu.Lock()
	g.generateCalls++
	g.mu.Unlock()
	if g.GenerateErr != nil {
		return nil, g.GenerateErr
	}
	return &ports.GenerateResult{Text: g.GenerateText, Usage: g.GenerateUsage}, nil
}

func (g *StubGateway) GenerateStream(ctx context.Context, _ string) (<-chan ports.StreamChunk, error) {
	g.mu.Lock()
	g.streamCalls++
	g.mu.Unlock()
	if g.StreamErr != nil {
		return nil, g.StreamErr
	}

	out := make(chan ports.StreamChunk)
	go func() {
		defer close(out)
		for _, chunk := range g.StreamChunks {
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
			if chunk.Err != nil {
				return
			}
		}
	}()
	return out, nil
}

// GenerateCalls reports how many single-shot calls were made.
func (g *StubGateway) GenerateCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateCalls
}

// StreamCalls reports how many streaming calls were made.
func (g *StubGateway) StreamCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.streamCalls
}

// StubRetriever returns fixed snippets (or a fixed error) for any query
// and counts invocations.
type StubRetriever struct {
	Snippets []ports.Snippet
	Err      error

	mu    sync.Mutex
	calls int
}

func (r *StubRetriever) Retrieve(_ context.Context, _ string) ([]ports.Snippet, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Snippets, nil
}

// Calls reports how many lookups were made.
func (r *StubRetriever) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// RecordingSink is an in-memory TraceSink capturing every run and its
// attached metadata.
type RecordingSink struct {
	mu   sync.Mutex
	runs []*RecordedRun

	// StartErr, when set, makes StartRun fail.
	StartErr error
}

// RecordedRun is one captured run handle.
type RecordedRun struct {
	Name string
	// AddErr, when set, makes AddMetadata fail (for swallow-and-log tests).
	AddErr error

	mu       sync.Mutex
	metadata []map[string]any
}

func (s *RecordingSink) StartRun(_ context.Context, name string) (ports.Run, error) {
	if s.StartErr != nil {
		return nil, s.StartErr
	}
	run := &RecordedRun{Name: name}
	s.mu.Lock()
	s.runs = append(s.runs, run)
	s.mu.Unlock()
	return run, nil
}

// Runs returns the captured runs in start order.
func (s *RecordingSink) Runs() []*RecordedRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*RecordedRun(nil), s.runs...)
}

func (r *RecordedRun) ID() string { return r.Name }

func (r *RecordedRun) AddMetadata(_ context.Context, meta map[string]any) error {
	if r.AddErr != nil {
		return r.AddErr
	}
	r.mu.Lock()
	r.metadata = append(r.metadata, meta)
	r.mu.Unlock()
	return nil
}

// Metadata returns the attached records in order.
func (r *RecordedRun) Metadata() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.metadata...)
}
