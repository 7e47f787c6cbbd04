package domain

import "fmt"

// ModelError wraps any failure reported by the model gateway: network,
// auth, quota, or a malformed payload. It is not retried; it propagates to
// the conversation boundary, which turns it into a single terminal error
// event for the caller.
type ModelError struct {
	Op    string // "generate" or "stream"
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s: %s failed: %v", e.Model, e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
