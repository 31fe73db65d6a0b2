// Package telemetry groups the observability subsystems: structured logging
// and Prometheus metrics. Each subsystem lives in its own subpackage.
package telemetry
