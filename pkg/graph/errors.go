package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleDetected is returned when a traversal exceeds the step bound.
// The shipped topology is acyclic, so hitting this means the graph wiring
// regressed; the bound exists so a future cyclic misconfiguration fails
// loudly instead of spinning.
var ErrCycleDetected = errors.New("graph: traversal step bound exceeded")

// ConfigError reports malformed graph wiring detected by Compile. It is
// fatal to startup and never occurs at request time against a validated
// graph.
type ConfigError struct {
	Defects []string
}

func (e *ConfigError) Error() string {
	return "graph config: " + strings.Join(e.Defects, "; ")
}

// RoutingError reports a predicate producing an outcome label absent from
// its edge map. Compile-time totality checking makes this unreachable
// unless a predicate returns a label outside its declared outcome set.
type RoutingError struct {
	Node    string
	Outcome Outcome
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("graph routing: node %q produced unmapped outcome %q", e.Node, e.Outcome)
}

// ConflictError reports two nodes on one execution path writing the same
// state field. The scheduler refuses to merge the second write silently.
type ConflictError struct {
	Field     string
	Node      string
	FirstNode string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("graph state: node %q rewrote field %q already written by %q",
		e.Node, e.Field, e.FirstNode)
}
