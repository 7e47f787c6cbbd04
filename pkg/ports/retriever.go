package ports

import "context"

// Snippet is one reference passage matched against a query.
type Snippet struct {
	Key  string
	Text string
}

// Retriever looks up reference material for a query. Implementations must
// be side-effect free; an empty result is a normal outcome, not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Snippet, error)
}
