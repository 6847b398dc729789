package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/peplab/pkg/domain"
)

// Metrics holds the navigation collectors.
type Metrics struct {
	Transitions   *prometheus.CounterVec
	Outcomes      *prometheus.CounterVec
	Phases        *prometheus.CounterVec
	ProbeDuration prometheus.Histogram
	BackendUp     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peplab_state_transitions_total",
				Help: "Total number of state transitions",
			},
			[]string{"from", "to"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peplab_navigation_outcomes_total",
				Help: "Navigation requests by outcome status",
			},
			[]string{"status"},
		),
		Phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "peplab_initialization_phases_total",
				Help: "Initialization phases entered",
			},
			[]string{"phase"},
		),
		ProbeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "peplab_backend_probe_duration_seconds",
				Help:    "Duration of backend health probes",
				Buckets: prometheus.DefBuckets,
			},
		),
		BackendUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "peplab_backend_up",
				Help: "1 when the last backend probe succeeded",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Outcomes, m.Phases, m.ProbeDuration, m.BackendUp)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			from := e.From
			if from == "" {
				from = "none"
			}
			m.Transitions.WithLabelValues(from, e.To).Inc()
		},
		OnOutcome: func(_ context.Context, e *domain.OutcomeEvent) {
			m.Outcomes.WithLabelValues(string(e.Status)).Inc()
		},
		OnPhase: func(_ context.Context, e *domain.PhaseEvent) {
			m.Phases.WithLabelValues(e.To.String()).Inc()
		},
		OnProbe: func(_ context.Context, e *domain.ProbeEvent) {
			m.ProbeDuration.Observe(e.Duration.Seconds())
			if e.Connected {
				m.BackendUp.Set(1)
			} else {
				m.BackendUp.Set(0)
			}
		},
	}
}
