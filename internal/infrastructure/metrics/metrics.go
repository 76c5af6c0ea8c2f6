package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Routing counts onboarding routing outcomes. A nil *Routing is a no-op.
type Routing struct {
	decisions     *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	ambiguous     prometheus.Counter
}

func NewRouting(reg prometheus.Registerer) *Routing {
	m := &Routing{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fabdive",
			Name:      "routing_decisions_total",
			Help:      "Onboarding routing decisions by entry point and target.",
		}, []string{"entry", "target"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fabdive",
			Name:      "routing_fetch_failures_total",
			Help:      "Record lookups that failed while loading a routing context.",
		}, []string{"record"}),
		ambiguous: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fabdive",
			Name:      "routing_ambiguous_records_total",
			Help:      "Profiles flagged completed while an upstream field is missing.",
		}),
	}
	reg.MustRegister(m.decisions, m.fetchFailures, m.ambiguous)
	return m
}

func (m *Routing) Decision(entry, target string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(entry, target).Inc()
}

func (m *Routing) FetchFailure(record string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(record).Inc()
}

func (m *Routing) Ambiguous() {
	if m == nil {
		return
	}
	m.ambiguous.Inc()
}

// HTTP tracks API request counts and latency. A nil *HTTP is a no-op.
type HTTP struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inflight prometheus.Gauge
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fabdive",
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fabdive",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fabdive",
			Name:      "http_inflight_requests",
			Help:      "API requests currently being served.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.inflight)
	return m
}

func (m *HTTP) InflightInc() {
	if m != nil {
		m.inflight.Inc()
	}
}

func (m *HTTP) InflightDec() {
	if m != nil {
		m.inflight.Dec()
	}
}

func (m *HTTP) Observe(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}
