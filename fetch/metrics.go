package fetch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the fetcher.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	RetriesTotal    prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
	CacheHitsTotal  prometheus.Counter
	CacheMissTotal  prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webintel_requests_total",
			Help: "Total HTTP requests issued by the fetcher.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webintel_request_duration_seconds",
			Help:    "HTTP request latency for fetch attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webintel_retries_total",
			Help: "Total number of retry attempts.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webintel_errors_total",
			Help: "Total number of fetch errors by type.",
		},
		[]string{"error_type"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webintel_cache_hits_total",
			Help: "Total page cache hits.",
		},
	)
	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webintel_cache_misses_total",
			Help: "Total page cache misses.",
		},
	)

	registry.MustRegister(requests, requestDuration, retries, errorsTotal, cacheHits, cacheMisses)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		RetriesTotal:    retries,
		ErrorsTotal:     errorsTotal,
		CacheHitsTotal:  cacheHits,
		CacheMissTotal:  cacheMisses,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncCacheMiss increments the cache miss counter.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissTotal.Inc()
}
