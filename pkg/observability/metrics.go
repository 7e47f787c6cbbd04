package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/graftlabs/graft/pkg/domain"
)

// Conversation outcome labels.
const (
	OutcomeAnswered = "answered"
	OutcomeRefused  = "refused"
	OutcomeError    = "error"
)

// Model call modes.
const (
	ModeGenerate = "generate"
	ModeStream   = "stream"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	modelCalls    *prometheus.CounterVec
	tokens        *prometheus.CounterVec
	conversations *prometheus.CounterVec
}

// NewMetrics registers the collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		modelCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_model_calls_total",
			Help: "Model gateway invocations by model and call mode.",
		}, []string{"model", "mode"}),
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_model_tokens_total",
			Help: "Tokens consumed by model and direction.",
		}, []string{"model", "direction"}),
		conversations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_conversations_total",
			Help: "Completed conversations by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveUsage records one model call and its token cost.
func (m *Metrics) ObserveUsage(usage domain.Usage, mode string) {
	if m == nil {
		return
	}
	m.modelCalls.WithLabelValues(usage.Model, mode).Inc()
	m.tokens.WithLabelValues(usage.Model, "input").Add(float64(usage.InputTokens))
	m.tokens.WithLabelValues(usage.Model, "output").Add(float64(usage.OutputTokens))
}

// ObserveConversation records one finished conversation.
func (m *Metrics) ObserveConversation(outcome string) {
	if m == nil {
		return
	}
	m.conversations.WithLabelValues(outcome).Inc()
}
