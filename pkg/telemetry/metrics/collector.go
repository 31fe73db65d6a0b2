// Package metrics provides Prometheus metrics for the Compass service:
// evaluation counters and duration histograms, HTTP request metrics, and
// catalog gauges, exposed through a single collector-owned registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the Prometheus namespace for all Compass metrics.
const Namespace = "compass"

// Collector owns the Prometheus registry and all metric subsystems.
type Collector struct {
	registry *prometheus.Registry

	evaluation *EvaluationMetrics
	http       *HTTPMetrics
	catalog    *CatalogMetrics
}

// NewCollector creates a metrics collector. If registry is nil a new
// private registry is created, keeping Compass metrics isolated from
// anything else registered in the process.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Collector{
		registry:   registry,
		evaluation: NewEvaluationMetrics(registry),
		http:       NewHTTPMetrics(registry),
		catalog:    NewCatalogMetrics(registry),
	}
}

// Evaluation returns the evaluation metric subsystem.
func (c *Collector) Evaluation() *EvaluationMetrics {
	return c.evaluation
}

// HTTP returns the HTTP metric subsystem.
func (c *Collector) HTTP() *HTTPMetrics {
	return c.http
}

// Catalog returns the catalog metric subsystem.
func (c *Collector) Catalog() *CatalogMetrics {
	return c.catalog
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
