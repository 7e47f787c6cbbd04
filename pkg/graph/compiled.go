package graph

// Compiled is an immutable adjacency structure produced by Builder.Compile.
// It carries no per-request state, so one compiled graph is safely shared
// across concurrent executions.
type Compiled struct {
	entry  string
	nodes  map[string]Handler
	routes map[string]route
	order  []string
}

// Entry returns the entry node name.
func (c *Compiled) Entry() string { return c.entry }

// Nodes returns node names in registration order.
func (c *Compiled) Nodes() []string {
	return append([]string(nil), c.order...)
}

// EdgeDef is an introspection view of one outgoing edge. Label is the
// outcome for conditional edges and empty for unconditional ones.
type EdgeDef struct {
	From  string
	To    string
	Label string
}

// Edges returns every edge in a stable order, for visualization and
// introspection tooling.
func (c *Compiled) Edges() []EdgeDef {
	var edges []EdgeDef
	for _, source := range c.order {
		r, ok := c.routes[source]
		if !ok {
			continue
		}
		switch r.kind {
		case routeAlways:
			edges = append(edges, EdgeDef{From: source, To: r.target})
		case routeConditional:
			for _, label := range r.pred.Outcomes {
				edges = append(edges, EdgeDef{From: source, To: r.targets[label], Label: string(label)})
			}
		}
	}
	return edges
}
