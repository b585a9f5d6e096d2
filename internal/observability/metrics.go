// Package observability exposes Prometheus metrics for the split-bill flow.
//
// Logging lives in infrastructure/logging; this package only counts things.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "calctacos"

// Metrics holds the collectors the services update.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	settlements    *prometheus.CounterVec
	settledAmount  *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	closeouts      *prometheus.CounterVec
	closedAmount   prometheus.Counter
	openSessions   prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewMetrics registers every collector on a fresh registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subaccounts_paid_total",
			Help:      "Sub-accounts settled, by payment method.",
		}, []string{"method"}),
		settledAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subaccount_amount_total",
			Help:      "Money settled through sub-accounts, by payment method.",
		}, []string{"method"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_rejections_total",
			Help:      "Split operations refused, by reason.",
		}, []string{"reason"}),
		closeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_closed_total",
			Help:      "Table accounts closed, by primary payment method.",
		}, []string{"method"}),
		closedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_total",
			Help:      "Total of all closed sales.",
		}),
		openSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "split_sessions_open",
			Help:      "Split sessions currently open.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.settlements,
		m.settledAmount,
		m.rejections,
		m.closeouts,
		m.closedAmount,
		m.openSessions,
		m.httpRequests,
		m.requestLatency,
	)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SubaccountPaid(method string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(method).Inc()
	m.settledAmount.WithLabelValues(method).Add(amount.InexactFloat64())
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) AccountClosed(method string, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.closeouts.WithLabelValues(method).Inc()
	m.closedAmount.Add(total.InexactFloat64())
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.openSessions.Inc()
	}
}

func (m *Metrics) SessionEnded() {
	if m != nil {
		m.openSessions.Dec()
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(seconds)
}
