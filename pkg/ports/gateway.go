package ports

import (
	"context"

	"github.com/graftlabs/graft/pkg/domain"
)

// GenerateResult is the outcome of a single-shot model call.
type GenerateResult struct {
	Text  string
	Usage domain.Usage
}

// StreamChunk is one element of a streaming model call. A chunk may carry
// a text fragment, a usage report (expected on the final chunk), both, or
// neither. A non-nil Err terminates the stream; no further chunks follow.
type StreamChunk struct {
	Text  string
	Usage *domain.Usage
	Err   error
}

// ModelGateway provides uniform access to the remote generative model.
// The gateway binds the model identifier at construction; ModelID reports
// it for usage attribution.
//
// GenerateStream returns a finite, non-restartable channel of chunks. The
// producer must honor ctx: cancelling it stops the underlying network call
// and closes the channel promptly.
type ModelGateway interface {
	ModelID() string
	Generate(ctx context.Context, prompt string) (*GenerateResult, error)
	GenerateStream(ctx context.Context, prompt string) (<-chan StreamChunk, error)
}
