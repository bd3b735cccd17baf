// Package metrics provides Prometheus metrics for document-store operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StoreMetrics collects per-operation counters and latencies for document
// store calls. A nil *StoreMetrics is a valid no-op collector, so callers
// can leave metrics unconfigured.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates unregistered store collectors. Register them with
// a Registry (or any prometheus.Registerer) before use.
func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docstore_operations_total",
				Help: "Document store operations by operation and result.",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docstore_operation_duration_seconds",
				Help:    "Document store operation latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Register registers the collectors with reg.
func (m *StoreMetrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.operations); err != nil {
		return err
	}
	return reg.Register(m.duration)
}

// Observe records one completed operation.
func (m *StoreMetrics) Observe(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Registry manages metric registration and exposure. It includes Go runtime
// and process collectors by default.
type Registry struct {
	registry *prometheus.Registry
}

// NewRegistry creates a registry with the default runtime collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Registry{registry: reg}
}

// Register registers a custom collector.
func (r *Registry) Register(collector prometheus.Collector) error {
	return r.registry.Register(collector)
}

// Registerer returns the underlying prometheus.Registerer.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Handler returns an HTTP handler exposing the metrics in Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying prometheus.Gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
