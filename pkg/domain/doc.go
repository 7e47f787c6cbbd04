/*
Package domain contains the core data model for the Graft workflow engine.

It defines the per-request Conversation State, the partial Update records
returned by node handlers, the token Usage report, and the model error
type. This package is kept pure and free of external dependencies like I/O
or persistence, following Hexagonal Architecture principles.

# Key Entities

  - State: the per-request snapshot (prompt, answer, routing flags).
  - Update: a node handler's partial write, merged field-by-field by the
    scheduler.
  - Usage: the token-count record describing the cost of one model call.
  - ModelError: a failure reported by the model gateway.
*/
package domain
