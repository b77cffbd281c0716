// Package metrics exposes Prometheus instrumentation for the catalog service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the dataset load counter.
const (
	SourceFile  = "file"
	SourceCache = "cache"
)

// Label values for the dataset row gauge.
const (
	StageRaw     = "raw"
	StageCleaned = "cleaned"
)

// Metrics holds every collector the service records into. All collectors
// live on a private registry so the metrics endpoint serves only our own
// series plus the standard runtime collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Dataset metrics.
	DatasetLoadDuration prometheus.Histogram
	DatasetLoadsTotal   *prometheus.CounterVec
	DatasetRows         *prometheus.GaugeVec

	// Aggregation metrics.
	DashboardBuildsTotal prometheus.Counter
	ReducerDuration      *prometheus.HistogramVec

	// Query metrics.
	SearchQueriesTotal prometheus.Counter

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimitedTotal    prometheus.Counter
}

// New creates all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	m := &Metrics{registry: registry}

	m.DatasetLoadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamlens_dataset_load_duration_seconds",
		Help:    "Time spent loading and cleaning the dataset",
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	m.DatasetLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamlens_dataset_loads_total",
			Help: "Dataset loads by source",
		},
		[]string{"source"},
	)

	m.DatasetRows = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamlens_dataset_rows",
			Help: "Rows in the current snapshot by pipeline stage",
		},
		[]string{"stage"},
	)

	m.DashboardBuildsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "streamlens_dashboard_builds_total",
		Help: "Dashboard aggregations computed",
	})

	m.ReducerDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamlens_reducer_duration_seconds",
			Help:    "Time spent in each dashboard reducer",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"reducer"},
	)

	m.SearchQueriesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "streamlens_search_queries_total",
		Help: "Full text search queries served",
	})

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamlens_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamlens_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.RateLimitedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "streamlens_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})

	return m
}

// Registry returns the backing registry for the metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveLoad records one dataset load and the resulting row counts.
func (m *Metrics) ObserveLoad(source string, duration time.Duration, rawRows, cleanedRows int) {
	m.DatasetLoadsTotal.WithLabelValues(source).Inc()
	m.DatasetLoadDuration.Observe(duration.Seconds())
	m.DatasetRows.WithLabelValues(StageRaw).Set(float64(rawRows))
	m.DatasetRows.WithLabelValues(StageCleaned).Set(float64(cleanedRows))
}

// ObserveReducer records the runtime of a single dashboard reducer.
func (m *Metrics) ObserveReducer(reducer string, duration time.Duration) {
	m.ReducerDuration.WithLabelValues(reducer).Observe(duration.Seconds())
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
