// Package metrics exposes shop counters in the Prometheus text format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers do not
// collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	ordersCreated       prometheus.Counter
	orderStatus         *prometheus.CounterVec
	exports             *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	degraded            prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "optics",
			Name:      "orders_created_total",
			Help:      "Orders created.",
		}),
		orderStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optics",
			Name:      "order_status_changes_total",
			Help:      "Order status changes by target status.",
		}, []string{"status"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optics",
			Name:      "document_exports_total",
			Help:      "Order document exports by format and result.",
		}, []string{"format", "result"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "optics",
			Name:      "persistence_failures_total",
			Help:      "Snapshot flushes that failed after retries, by bucket.",
		}, []string{"bucket"}),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "optics",
			Name:      "persistence_degraded",
			Help:      "1 while the store runs in memory only.",
		}),
	}
	reg.MustRegister(
		m.ordersCreated,
		m.orderStatus,
		m.exports,
		m.persistenceFailures,
		m.degraded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) OrderCreated() { m.ordersCreated.Inc() }

func (m *Metrics) StatusChanged(status string) { m.orderStatus.WithLabelValues(status).Inc() }

func (m *Metrics) ExportFinished(format, result string) {
	m.exports.WithLabelValues(format, result).Inc()
}

// PersistFailed matches core.StoreOptions.OnPersistFailure.
func (m *Metrics) PersistFailed(bucket string, err error) {
	m.persistenceFailures.WithLabelValues(bucket).Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if degraded {
		m.degraded.Set(1)
		return
	}
	m.degraded.Set(0)
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
