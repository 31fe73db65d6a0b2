package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks metrics for obligation evaluations.
//
// Metrics:
//   - compass_evaluations_total: Total evaluation count by outcome
//   - compass_evaluation_duration_seconds: Evaluation duration histogram
//   - compass_obligations_applied: Obligations applied per evaluation
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	obligationsApplied prometheus.Histogram
}

// NewEvaluationMetrics creates and registers evaluation metrics with the
// provided registry.
func NewEvaluationMetrics(registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "evaluations_total",
				Help:      "Total number of profile evaluations",
			},
			[]string{"status"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a full catalog evaluation in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		obligationsApplied: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "obligations_applied",
				Help:      "Number of obligations applied per evaluation",
				Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.obligationsApplied,
	)

	return em
}

// RecordEvaluation records metrics for a completed evaluation.
// status is "success" or "error".
func (em *EvaluationMetrics) RecordEvaluation(status string, duration time.Duration, applied int) {
	em.evaluationsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		em.evaluationDuration.Observe(duration.Seconds())
		em.obligationsApplied.Observe(float64(applied))
	}
}
