package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics covers the façade's inbound request surface.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewHTTPMetrics(namespace string) *HTTPMetrics {
	return &HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: namespace + "_http_requests_total",
				Help: "Total number of HTTP requests served by the façade.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    namespace + "_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (m *HTTPMetrics) Observe(method, path, status string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// DispatchMetrics covers outbound BAP->BPP calls made by the Dispatcher.
type DispatchMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetriesTotal    *prometheus.CounterVec
}

func NewDispatchMetrics(namespace string) *DispatchMetrics {
	return &DispatchMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: namespace + "_dispatch_requests_total",
				Help: "Total number of outbound ONDC dispatches.",
			},
			[]string{"action", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    namespace + "_dispatch_duration_seconds",
				Help:    "Outbound dispatch duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		RetriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: namespace + "_dispatch_retries_total",
				Help: "Total number of outbound dispatch retry attempts.",
			},
			[]string{"action"},
		),
	}
}

func (m *DispatchMetrics) Observe(action, status string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(action, status).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(d.Seconds())
}

func (m *DispatchMetrics) ObserveRetry(action string) {
	m.RetriesTotal.WithLabelValues(action).Inc()
}

// BusinessMetrics covers domain-level counters independent of transport.
type BusinessMetrics struct {
	OrdersConfirmed  prometheus.Counter
	CatalogUpserts   *prometheus.CounterVec
	ParticipantCacheHits   prometheus.Counter
	ParticipantCacheMisses prometheus.Counter
}

func NewBusinessMetrics(namespace string) *BusinessMetrics {
	return &BusinessMetrics{
		OrdersConfirmed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: namespace + "_orders_confirmed_total",
				Help: "Total number of buyer commerce orders confirmed.",
			},
		),
		CatalogUpserts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: namespace + "_catalog_upserts_total",
				Help: "Total number of catalog entity upserts, by entity kind.",
			},
			[]string{"entity"},
		),
		ParticipantCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: namespace + "_participant_cache_hits_total",
				Help: "Total number of participant directory cache hits.",
			},
		),
		ParticipantCacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: namespace + "_participant_cache_misses_total",
				Help: "Total number of participant directory cache misses.",
			},
		),
	}
}
