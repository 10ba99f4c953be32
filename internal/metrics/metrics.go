package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderdesk"

// Metrics holds the Prometheus collectors of the service. Each instance owns
// its registry.
type Metrics struct {
	registry *prometheus.Registry

	commits         *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	archives        *prometheus.CounterVec
	blacklist       *prometheus.CounterVec
	reconciled      *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "commits_total",
			Help:      "Committed status transitions by target status and outcome.",
		}, []string{"status", "outcome"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "notifications_total",
			Help:      "Customer notifications by outcome.",
		}, []string{"outcome"}),
		archives: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "archives_total",
			Help:      "Archive attempts by outcome.",
		}, []string{"outcome"}),
		blacklist: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blacklist",
			Name:      "changes_total",
			Help:      "Blacklist changes by intent and outcome.",
		}, []string{"intent", "outcome"}),
		reconciled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "orders_total",
			Help:      "Orders mirrored into history by the reconciler.",
		}, []string{"outcome"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Commit(status, outcome string) {
	m.commits.WithLabelValues(status, outcome).Inc()
}

func (m *Metrics) Notification(outcome string) {
	m.notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Archive(outcome string) {
	m.archives.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Blacklist(intent, outcome string) {
	m.blacklist.WithLabelValues(intent, outcome).Inc()
}

func (m *Metrics) Reconciled(outcome string) {
	m.reconciled.WithLabelValues(outcome).Inc()
}

// Request records one served HTTP request. path should be the route
// template, not the raw URL.
func (m *Metrics) Request(method, path, status string, seconds float64) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(seconds)
}
