package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lazypower/orbit/internal/records"
)

type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	mutations *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry, rs *records.Store) *metrics {
	m := &metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orbit_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orbit_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orbit_mutations_total",
			Help: "Successful record mutations by operation.",
		}, []string{"op"}),
	}
	items := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "orbit_items",
		Help: "Items currently stored.",
	}, func() float64 { return float64(rs.Len()) })

	reg.MustRegister(m.requests, m.latency, m.mutations, items)
	return m
}

func (m *metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *metrics) mutated(op string) {
	m.mutations.WithLabelValues(op).Inc()
}
