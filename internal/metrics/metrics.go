// Package metrics exposes Prometheus collectors for the cache and mock API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "financehub"

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	CacheRequests      *prometheus.CounterVec
	CacheFetches       *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	APIDuration        *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Query cache lookups by entity and result (hit, miss).",
		}, []string{"entity", "result"}),
		CacheFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Underlying fetches executed by the query cache.",
		}, []string{"entity", "outcome"}),
		CacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Cache entries invalidated after mutations.",
		}, []string{"entity"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "operation_duration_seconds",
			Help:      "Mock API call duration including simulated latency.",
			Buckets:   []float64{.005, .05, .1, .2, .3, .4, .5, 1, 2},
		}, []string{"entity", "op", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.CacheRequests, m.CacheFetches, m.CacheInvalidations, m.APIDuration)
	}
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveAPI(entity, op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.APIDuration.WithLabelValues(entity, op, outcome(err)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) CacheLookup(entity string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(entity, result).Inc()
}

func (m *Metrics) CacheFetch(entity string, err error) {
	if m == nil {
		return
	}
	m.CacheFetches.WithLabelValues(entity, outcome(err)).Inc()
}

func (m *Metrics) CacheInvalidated(entity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.CacheInvalidations.WithLabelValues(entity).Add(float64(n))
}

// Handler serves the exposition format for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
