package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks metrics for the obligation catalog.
//
// Metrics:
//   - compass_catalog_obligations: Number of obligations currently loaded
//   - compass_catalog_reloads_total: Catalog reload count by outcome
type CatalogMetrics struct {
	obligations  prometheus.Gauge
	reloadsTotal *prometheus.CounterVec
}

// NewCatalogMetrics creates and registers catalog metrics with the provided
// registry.
func NewCatalogMetrics(registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		obligations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "catalog_obligations",
				Help:      "Number of obligations currently loaded",
			},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog reloads",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		cm.obligations,
		cm.reloadsTotal,
	)

	return cm
}

// SetObligations records the current catalog size.
func (cm *CatalogMetrics) SetObligations(n int) {
	cm.obligations.Set(float64(n))
}

// RecordReload records a catalog reload. status is "success" or "error".
func (cm *CatalogMetrics) RecordReload(status string) {
	cm.reloadsTotal.WithLabelValues(status).Inc()
}
