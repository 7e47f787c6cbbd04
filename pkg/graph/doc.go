/*
Package graph implements the Graft workflow engine: a builder for small
decision/generation graphs with conditional edges, and a streaming executor
that traverses a compiled graph one node at a time.

A graph is assembled with Builder (AddNode, AddEdge, AddConditionalEdges,
SetEntryPoint) and validated by Compile, which fails fast on any wiring
defect: a missing node, an unset entry point, an outcome map that does not
cover its predicate's declared outcomes, or duplicate edges from the same
source. The resulting Compiled graph is immutable and safe to share across
concurrent executions; all per-request state lives in the execution.

Compiled.Stream runs one execution and returns a finite channel of events.
Generation handlers forward text fragments through the event channel the
moment they are produced, before the handler returns, so callers observe
partial output while generation is still in flight. Closing the consumer
side (cancelling the context) stops traversal at the next suspension point
and propagates into in-flight gateway calls.
*/
package graph
