// Package genai adapts the Google Gemini API to the ModelGateway port.
package genai

import (
	"context"
	"fmt"

	backend "google.golang.org/genai"

	"github.com/graftlabs/graft/pkg/domain"
	"github.com/graftlabs/graft/pkg/ports"
)

// Client is the Gemini-backed model gateway. The model identifier is bound
// at construction; all calls go to that model.
type Client struct {
	client      *backend.Client
	model       string
	temperature float32
}

// Option configures the client.
type Option func(*Client)

// WithTemperature sets the sampling temperature for both call modes.
func WithTemperature(t float32) Option {
	return func(c *Client) { c.temperature = t }
}

// New creates a gateway against the Gemini API.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai: missing API key")
	}
	if model == "" {
		return nil, fmt.Errorf("genai: missing model id")
	}
	inner, err := backend.NewClient(ctx, &backend.ClientConfig{
		APIKey:  apiKey,
		Backend: backend.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: client init: %w", err)
	}

	c := &Client{client: inner, model: model, temperature: 0.7}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ModelID reports the bound model identifier.
func (c *Client) ModelID() string { return c.model }

// Generate issues a single-shot call and returns the full text plus its
// usage report.
func (c *Client) Generate(ctx context.Context, prompt string) (*ports.GenerateResult, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, backend.Text(prompt), c.config())
	if err != nil {
		return nil, &domain.ModelError{Op: "generate", Model: c.model, Err: err}
	}
	return &ports.GenerateResult{
		Text:  resp.Text(),
		Usage: c.usageFrom(resp),
	}, nil
}

// GenerateStream issues a streaming call. The returned channel yields one
// chunk per response; the usage report rides the chunk that carries it
// (the final one, for this backend). Cancelling ctx aborts the underlying
// network call and closes the channel.
func (c *Client) GenerateStream(ctx context.Context, prompt string) (<-chan ports.StreamChunk, error) {
	out := make(chan ports.StreamChunk)
	go func() {
		defer close(out)
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, backend.Text(prompt), c.config()) {
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case out <- ports.StreamChunk{Err: &domain.ModelError{Op: "stream", Model: c.model, Err: err}}:
				case <-ctx.Done():
				}
				return
			}

			chunk := ports.StreamChunk{Text: resp.Text()}
			if resp.UsageMetadata != nil {
				u := c.usageFrom(resp)
				chunk.Usage = &u
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Client) config() *backend.GenerateContentConfig {
	return &backend.GenerateContentConfig{
		Temperature: backend.Ptr(c.temperature),
	}
}

func (c *Client) usageFrom(resp *backend.GenerateContentResponse) domain.Usage {
	var input, output int
	if resp.UsageMetadata != nil {
		input = int(resp.UsageMetadata.PromptTokenCount)
		output = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return domain.NewUsage(c.model, input, output)
}
