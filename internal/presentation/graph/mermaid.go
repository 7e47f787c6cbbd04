// Package graph renders compiled workflow topologies for humans.
package graph

import (
	"fmt"
	"strings"

	enginegraph "github.com/graftlabs/graft/pkg/graph"
)

// GenerateMermaid produces a Mermaid flowchart for a compiled graph.
// The entry node renders as a circle, END as a double circle, everything
// else as a rectangle; conditional edges carry their outcome label.
func GenerateMermaid(c *enginegraph.Compiled) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range c.Nodes() {
		safeID := sanitizeMermaidID(name)
		opener, closer := "[", "]"
		if name == c.Entry() {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))
	}

	hasEnd := false
	for _, edge := range c.Edges() {
		from := sanitizeMermaidID(edge.From)
		to := sanitizeMermaidID(edge.To)
		if edge.To == enginegraph.End {
			to = "END"
			hasEnd = true
		}

		arrow := "-->"
		if edge.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", edge.Label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	}

	if hasEnd {
		sb.WriteString("    END(((\"END\")))\n")
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
