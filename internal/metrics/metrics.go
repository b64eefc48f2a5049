// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "netintel"

// Registry holds all metrics for the application.
type Registry struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	PathsReturned     prometheus.Histogram
	PartialSearches   prometheus.Counter

	CacheLookups *prometheus.CounterVec

	IngestRecords *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with every collector initialised, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Engine operations by name and outcome",
		}, []string{"operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Engine operation latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		PathsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "path_search_results",
			Help:      "Number of paths returned per path search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		}),
		PartialSearches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "path_search_partial_total",
			Help:      "Path searches cut short by the caller deadline",
		}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Graph store cache lookups by entry kind and result",
		}, []string{"kind", "result"}),
		IngestRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_records_total",
			Help:      "Records written by bulk ingest by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
}

// RecordHTTPRequest records one served request.
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation records an engine operation and its outcome label.
func (r *Registry) RecordOperation(operation, outcome string, duration time.Duration) {
	r.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	r.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPathSearch records the size and completeness of a path search.
func (r *Registry) RecordPathSearch(paths int, partial bool) {
	r.PathsReturned.Observe(float64(paths))
	if partial {
		r.PartialSearches.Inc()
	}
}

// CacheHit implements cache.Observer.
func (r *Registry) CacheHit(kind string) {
	r.CacheLookups.WithLabelValues(kind, "hit").Inc()
}

// CacheMiss implements cache.Observer.
func (r *Registry) CacheMiss(kind string) {
	r.CacheLookups.WithLabelValues(kind, "miss").Inc()
}

// RecordIngest counts one ingested record.
func (r *Registry) RecordIngest(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.IngestRecords.WithLabelValues(kind, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer returns the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
