// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for the search pipeline.
// Extraction degradation is deliberately observable: per-item misses and
// zero-result pages get their own counters because silent selector drift
// is the failure mode this system lives with.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager manages the Prometheus metrics of the service.
type MetricsManager struct {
	searchesTotal   *prometheus.CounterVec
	searchDuration  *prometheus.HistogramVec
	fetchDuration   *prometheus.HistogramVec
	itemsExtracted  *prometheus.CounterVec
	itemsDropped    *prometheus.CounterVec
	zeroResultPages *prometheus.CounterVec
	assistCalls     *prometheus.CounterVec

	gatherer  prometheus.Gatherer
	namespace string
}

// NewMetricsManager registers the metric set under the given namespace on
// the default registry.
func NewMetricsManager(namespace string) *MetricsManager {
	return NewMetricsManagerWith(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsManagerWith registers on an explicit registerer; tests pass a
// fresh registry to avoid duplicate registration panics.
func NewMetricsManagerWith(namespace string, reg prometheus.Registerer) *MetricsManager {
	if namespace == "" {
		namespace = "mediascrapexter"
	}

	mm := &MetricsManager{namespace: namespace, gatherer: prometheus.DefaultGatherer}
	if g, ok := reg.(prometheus.Gatherer); ok {
		mm.gatherer = g
	}
	factory := promauto.With(reg)

	mm.searchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of search operations",
		},
		[]string{"source", "type", "status"},
	)

	mm.searchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source", "type"},
	)

	mm.fetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	mm.itemsExtracted = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_extracted_total",
			Help:      "Total number of media items successfully extracted",
		},
		[]string{"source", "type"},
	)

	mm.itemsDropped = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_dropped_total",
			Help:      "Total number of per-item extraction misses",
		},
		[]string{"source", "type"},
	)

	mm.zeroResultPages = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zero_result_pages_total",
			Help:      "Pages that returned 200 but yielded no parsed items; a likely sign of upstream markup drift",
		},
		[]string{"source", "type"},
	)

	mm.assistCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assist_calls_total",
			Help:      "Selector-repair assistant invocations",
		},
		[]string{"driver", "status"},
	)

	return mm
}

// RecordSearch records one completed search operation.
func (mm *MetricsManager) RecordSearch(source, contentType, status string, seconds float64) {
	mm.searchesTotal.WithLabelValues(source, contentType, status).Inc()
	mm.searchDuration.WithLabelValues(source, contentType).Observe(seconds)
}

// RecordFetch records the upstream fetch portion of a search.
func (mm *MetricsManager) RecordFetch(source string, seconds float64) {
	mm.fetchDuration.WithLabelValues(source).Observe(seconds)
}

// RecordExtraction records per-page extraction outcomes.
func (mm *MetricsManager) RecordExtraction(source, contentType string, extracted, dropped int) {
	mm.itemsExtracted.WithLabelValues(source, contentType).Add(float64(extracted))
	mm.itemsDropped.WithLabelValues(source, contentType).Add(float64(dropped))
	if extracted == 0 {
		mm.zeroResultPages.WithLabelValues(source, contentType).Inc()
	}
}

// RecordAssist records one assistant invocation.
func (mm *MetricsManager) RecordAssist(driver, status string) {
	mm.assistCalls.WithLabelValues(driver, status).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint. It
// serves the registry the metrics were registered on, not the process
// default.
func (mm *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(mm.gatherer, promhttp.HandlerOpts{})
}
