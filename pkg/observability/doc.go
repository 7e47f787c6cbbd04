/*
Package observability provides the Prometheus collectors for the Graft
engine: model call and token counters plus conversation outcomes. The
metrics value is optional wiring; a nil *Metrics is a no-op everywhere it
is consumed.
*/
package observability
