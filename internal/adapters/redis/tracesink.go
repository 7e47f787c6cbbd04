// Package redis implements the trace sink on a Redis backend. Runs are
// stored as a hash plus an append-only metadata list, so independent
// executions can record concurrently without coordination.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/graftlabs/graft/pkg/ports"
)

// Sink implements ports.TraceSink using Redis.
type Sink struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the sink.
type Option func(*Sink)

// WithTTL sets the expiration for run records. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Sink) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for run records.
func WithPrefix(prefix string) Option {
	return func(s *Sink) { s.prefix = prefix }
}

// New creates a Redis sink with its own client.
func New(address, password string, db int, opts ...Option) *Sink {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis sink from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Sink {
	s := &Sink{
		client: client,
		prefix: "graft:run:",
		ttl:    0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) key(runID string) string     { return s.prefix + runID }
func (s *Sink) metaKey(runID string) string { return s.prefix + runID + ":metadata" }
func (s *Sink) indexKey() string            { return s.prefix + "index" }

// StartRun creates a run record and returns its handle.
func (s *Sink) StartRun(ctx context.Context, name string) (ports.Run, error) {
	id := uuid.NewString()
	key := s.key(id)

	if err := s.client.HSet(ctx, key,
		"name", name,
		"started_at", time.Now().UTC().Format(time.RFC3339Nano),
	).Err(); err != nil {
		return nil, fmt.Errorf("trace run create: %w", err)
	}
	if err := s.client.RPush(ctx, s.indexKey(), id).Err(); err != nil {
		return nil, fmt.Errorf("trace run index: %w", err)
	}
	if s.ttl > 0 {
		s.client.Expire(ctx, key, s.ttl)
	}
	return &run{sink: s, id: id}, nil
}

type run struct {
	sink *Sink
	id   string
}

func (r *run) ID() string { return r.id }

// AddMetadata appends one metadata record to the run.
func (r *run) AddMetadata(ctx context.Context, meta map[string]any) error {
	payload, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("trace metadata encode: %w", err)
	}
	key := r.sink.metaKey(r.id)
	if err := r.sink.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("trace metadata append: %w", err)
	}
	if r.sink.ttl > 0 {
		r.sink.client.Expire(ctx, key, r.sink.ttl)
	}
	return nil
}
