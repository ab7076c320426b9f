package observability

import (
	"context"
	"errors"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Starts      *prometheus.CounterVec
	Answers     *prometheus.CounterVec
	Completions *prometheus.CounterVec
	Messages    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg (skipped when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Starts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvass_flow_starts_total",
			Help: "Flows started or restarted, by campaign.",
		}, []string{"campaign"}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvass_answers_total",
			Help: "Validated answers, by campaign, question kind and outcome.",
		}, []string{"campaign", "kind", "outcome"}),
		Completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvass_flow_completions_total",
			Help: "Completed flows, by campaign.",
		}, []string{"campaign"}),
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvass_messages_total",
			Help: "Inbound messages processed, by result.",
		}, []string{"result"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "canvass_process_duration_seconds",
			Help:    "Time spent processing one inbound message.",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Starts, m.Answers, m.Completions, m.Messages, m.Latency)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFlowStart: func(_ context.Context, e *domain.FlowEvent) {
			m.Starts.WithLabelValues(e.CampaignID).Inc()
		},
		OnAnswerAccepted: func(_ context.Context, e *domain.AnswerEvent) {
			m.Answers.WithLabelValues(e.CampaignID, string(e.Kind), "accepted").Inc()
		},
		OnAnswerRejected: func(_ context.Context, e *domain.AnswerEvent) {
			m.Answers.WithLabelValues(e.CampaignID, string(e.Kind), "rejected").Inc()
		},
		OnFlowComplete: func(_ context.Context, e *domain.FlowEvent) {
			m.Completions.WithLabelValues(e.CampaignID).Inc()
		},
		OnProcessed: func(_ context.Context, e *domain.ProcessEvent) {
			result := Result(e.Err)
			m.Messages.WithLabelValues(result).Inc()
			m.Latency.WithLabelValues(result).Observe(e.Duration.Seconds())
		},
	}
}

// Result classifies a Process error into a low-cardinality label.
// Campaign ids are left out of message labels: unknown ids come from user input.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidationRejected):
		return "rejected"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrInvalidFlow):
		return "invalid_flow"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, domain.ErrQuestionNotFound):
		return "question_not_found"
	default:
		return "error"
	}
}
