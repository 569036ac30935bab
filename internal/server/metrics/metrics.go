// Package metrics exposes PhoneAuth's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors and the registry they live in.
type Metrics struct {
	registry     *prometheus.Registry
	AuthOps      *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a private registry with the Go and process collectors plus the
// PhoneAuth metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		AuthOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phoneauth_auth_operations_total",
				Help: "Total number of authentication operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "phoneauth_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
	}

	registry.MustRegister(m.AuthOps)
	registry.MustRegister(m.HTTPDuration)

	return m
}

// AuthOperation counts one finished authentication operation.
func (m *Metrics) AuthOperation(operation, result string) {
	m.AuthOps.WithLabelValues(operation, result).Inc()
}

// ObserveHTTP records how long a request to route took.
func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	m.HTTPDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
