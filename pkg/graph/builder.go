package graph

import (
	"fmt"

	"github.com/graftlabs/graft/pkg/domain"
)

// End is the reserved target name marking the exit of the graph.
const End = "__end__"

// Outcome is a routing label produced by a decision node's predicate.
type Outcome string

// Predicate evaluates state after a decision node completes and yields one
// of its declared outcomes. Eval must only return labels listed in
// Outcomes; Compile checks edge maps for totality against that set.
type Predicate struct {
	Outcomes []Outcome
	Eval     func(domain.State) Outcome
}

type routeKind int

const (
	routeNone routeKind = iota
	routeAlways
	routeConditional
)

type route struct {
	kind    routeKind
	target  string
	pred    Predicate
	targets map[Outcome]string
}

// Builder accumulates node and edge registrations. All validation is
// deferred to Compile so wiring defects surface together at build time.
type Builder struct {
	nodes   map[string]Handler
	order   []string
	routes  map[string]route
	entry   string
	defects []string
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		nodes:  make(map[string]Handler),
		routes: make(map[string]route),
	}
}

// AddNode registers a named unit of work.
func (b *Builder) AddNode(name string, h Handler) *Builder {
	if name == "" || name == End {
		b.defects = append(b.defects, fmt.Sprintf("invalid node name %q", name))
		return b
	}
	if h == nil {
		b.defects = append(b.defects, fmt.Sprintf("node %q: nil handler", name))
		return b
	}
	if _, dup := b.nodes[name]; dup {
		b.defects = append(b.defects, fmt.Sprintf("node %q registered twice", name))
		return b
	}
	b.nodes[name] = h
	b.order = append(b.order, name)
	return b
}

// AddEdge registers an unconditional edge. Target may be End.
func (b *Builder) AddEdge(source, target string) *Builder {
	if !b.claimRoute(source) {
		return b
	}
	b.routes[source] = route{kind: routeAlways, target: target}
	return b
}

// AddConditionalEdges registers a predicate-driven edge set for source.
// The targets map must be total over the predicate's declared outcomes.
func (b *Builder) AddConditionalEdges(source string, pred Predicate, targets map[Outcome]string) *Builder {
	if !b.claimRoute(source) {
		return b
	}
	copied := make(map[Outcome]string, len(targets))
	for label, target := range targets {
		copied[label] = target
	}
	b.routes[source] = route{kind: routeConditional, pred: pred, targets: copied}
	return b
}

// SetEntryPoint names the node every execution starts at.
func (b *Builder) SetEntryPoint(name string) *Builder {
	if b.entry != "" && b.entry != name {
		b.defects = append(b.defects, fmt.Sprintf("entry point registered twice (%q, %q)", b.entry, name))
		return b
	}
	b.entry = name
	return b
}

// claimRoute enforces a single outgoing edge construct per source.
// Duplicate or contradictory registrations are a configuration defect,
// never resolved by silently keeping one.
func (b *Builder) claimRoute(source string) bool {
	if _, dup := b.routes[source]; dup {
		b.defects = append(b.defects, fmt.Sprintf("node %q has conflicting edge registrations", source))
		return false
	}
	return true
}

// Compile validates the wiring and returns an immutable graph. It never
// defers a defect to request time: everything it accepts will route.
func (b *Builder) Compile() (*Compiled, error) {
	defects := append([]string(nil), b.defects...)

	if b.entry == "" {
		defects = append(defects, "entry point not set")
	} else if _, ok := b.nodes[b.entry]; !ok {
		defects = append(defects, fmt.Sprintf("entry point %q is not a registered node", b.entry))
	}

	for _, source := range b.order {
		r, ok := b.routes[source]
		if !ok {
			continue // terminal node
		}
		switch r.kind {
		case routeAlways:
			if !b.targetExists(r.target) {
				defects = append(defects, fmt.Sprintf("edge %s -> %s: unknown target", source, r.target))
			}
		case routeConditional:
			defects = append(defects, b.checkConditional(source, r)...)
		}
	}
	for source := range b.routes {
		if _, ok := b.nodes[source]; !ok {
			defects = append(defects, fmt.Sprintf("edge source %q is not a registered node", source))
		}
	}

	if len(defects) > 0 {
		return nil, &ConfigError{Defects: defects}
	}

	nodes := make(map[string]Handler, len(b.nodes))
	for name, h := range b.nodes {
		nodes[name] = h
	}
	routes := make(map[string]route, len(b.routes))
	for name, r := range b.routes {
		routes[name] = r
	}
	return &Compiled{
		entry:  b.entry,
		nodes:  nodes,
		routes: routes,
		order:  append([]string(nil), b.order...),
	}, nil
}

func (b *Builder) checkConditional(source string, r route) []string {
	var defects []string
	if r.pred.Eval == nil {
		defects = append(defects, fmt.Sprintf("node %q: conditional edge with nil predicate", source))
	}
	if len(r.pred.Outcomes) == 0 {
		defects = append(defects, fmt.Sprintf("node %q: predicate declares no outcomes", source))
	}
	declared := make(map[Outcome]bool, len(r.pred.Outcomes))
	for _, label := range r.pred.Outcomes {
		if declared[label] {
			defects = append(defects, fmt.Sprintf("node %q: outcome %q declared twice", source, label))
		}
		declared[label] = true
		target, ok := r.targets[label]
		if !ok {
			defects = append(defects, fmt.Sprintf("node %q: outcome map missing %q", source, label))
			continue
		}
		if !b.targetExists(target) {
			defects = append(defects, fmt.Sprintf("edge %s -(%s)-> %s: unknown target", source, label, target))
		}
	}
	for label := range r.targets {
		if !declared[label] {
			defects = append(defects, fmt.Sprintf("node %q: outcome map has undeclared label %q", source, label))
		}
	}
	return defects
}

func (b *Builder) targetExists(target string) bool {
	if target == End {
		return true
	}
	_, ok := b.nodes[target]
	return ok
}
