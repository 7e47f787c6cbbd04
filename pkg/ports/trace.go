package ports

import "context"

// Run is one external observability record. Metadata can be attached zero
// or more times over the run's lifetime.
type Run interface {
	ID() string
	AddMetadata(ctx context.Context, meta map[string]any) error
}

// TraceSink creates run handles. A sink is optional wiring: executions
// without one simply skip metadata attachment. Sinks must tolerate
// concurrent, unordered writes from independent executions.
type TraceSink interface {
	StartRun(ctx context.Context, name string) (Run, error)
}
