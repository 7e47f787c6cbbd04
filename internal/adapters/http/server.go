// Package http exposes the conversation boundary over HTTP as a
// server-sent event stream.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/graftlabs/graft/pkg/conversation"
)

// Converser is the conversation boundary the server publishes.
type Converser interface {
	Converse(ctx context.Context, prompt string) <-chan conversation.Chunk
}

// Server wires the conversation service into HTTP handlers.
type Server struct {
	service Converser
	logger  *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler builds the HTTP handler. metrics may be nil; when set it is
// mounted at /metrics (typically a promhttp handler).
func NewHandler(service Converser, metrics http.Handler, opts ...Option) http.Handler {
	s := &Server{
		service: service,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Post("/conversation", s.handleConversation)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	return r
}

type conversationRequest struct {
	Message string `json:"message"`
}

// handleConversation streams the answer for one prompt. Each fragment is
// pushed as a `data:` event the moment the workflow produces it; any
// internal failure becomes a single terminal `data: [ERROR]` event. The
// response is never buffered by intermediaries (X-Accel-Buffering: no).
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	var body conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Message == "" {
		http.Error(w, "Missing message", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for chunk := range s.service.Converse(r.Context(), body.Message) {
		if chunk.Err != nil {
			s.logger.Error("conversation stream failed", "err", chunk.Err)
			fmt.Fprint(w, "data: [ERROR]\n\n")
			flusher.Flush()
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", chunk.Text)
		flusher.Flush()
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
