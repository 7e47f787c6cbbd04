/*
Package ports defines the driven ports (interfaces) for the Graft engine.

These interfaces decouple the workflow core from the external collaborators
it consumes, allowing the engine to run against the real Gemini backend, a
file- or memory-backed reference corpus, and different trace sinks.

# Key Interfaces

  - ModelGateway: single-shot and streaming access to the remote model.
  - Retriever: pure text-matching lookup against the reference corpus.
  - TraceSink / Run: optional external observability records that model
    calls attach usage metadata to.
*/
package ports
