package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/sra-panel-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides
// lightweight snapshots for API consumption.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	cacheLatency        prometheus.Observer
	cacheWrite          prometheus.Observer
	cacheHitRatio       prometheus.Gauge
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	aggregationDuration *prometheus.HistogramVec
	generatorDuration   prometheus.Observer
	generatorTotal      *prometheus.CounterVec

	cacheHitCount          uint64
	cacheMissCount         uint64
	requestCount           uint64
	requestDurationTotal   uint64
	aggregationCount       uint64
	aggregationTotal       uint64
	generatorCount         uint64
	generatorFailCount     uint64
	generatorDurationTotal uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	aggregationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregation_duration_seconds",
		Help:    "Duration of statistics aggregation passes",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	generatorDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "insight_generator_duration_seconds",
		Help:    "Duration of outbound insight generation calls",
		Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 90, 120},
	})

	generatorTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insight_generator_calls_total",
		Help: "Total outbound insight generation calls",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, aggregationDuration, generatorDuration, generatorTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:            registry,
		handler:             handler,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		cacheLatency:        cacheLatency,
		cacheWrite:          cacheWrite,
		cacheHitRatio:       cacheHitRatio,
		cacheHits:           cacheHits,
		cacheMisses:         cacheMisses,
		aggregationDuration: aggregationDuration,
		generatorDuration:   generatorDuration,
		generatorTotal:      generatorTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveAggregation records one statistics aggregation pass.
func (m *MetricsService) ObserveAggregation(scope string, duration time.Duration) {
	if m == nil {
		return
	}
	m.aggregationDuration.WithLabelValues(scope).Observe(duration.Seconds())
	atomic.AddUint64(&m.aggregationCount, 1)
	atomic.AddUint64(&m.aggregationTotal, uint64(duration.Nanoseconds()))
}

// ObserveGeneratorCall records one outbound insight generation attempt.
func (m *MetricsService) ObserveGeneratorCall(success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.generatorDuration.Observe(duration.Seconds())
	outcome := "success"
	if !success {
		outcome = "failure"
		atomic.AddUint64(&m.generatorFailCount, 1)
	}
	m.generatorTotal.WithLabelValues(outcome).Inc()
	atomic.AddUint64(&m.generatorCount, 1)
	atomic.AddUint64(&m.generatorDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics suitable for API consumption.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	aggCount := atomic.LoadUint64(&m.aggregationCount)
	aggDuration := atomic.LoadUint64(&m.aggregationTotal)
	genCount := atomic.LoadUint64(&m.generatorCount)
	genFailures := atomic.LoadUint64(&m.generatorFailCount)
	genDuration := atomic.LoadUint64(&m.generatorDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgAggMs float64
	if aggCount > 0 {
		avgAggMs = float64(aggDuration) / float64(aggCount) / float64(time.Millisecond)
	}

	var avgGenMs float64
	if genCount > 0 {
		avgGenMs = float64(genDuration) / float64(genCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:              cacheRatio,
		CacheHits:                  hits,
		CacheMisses:                misses,
		RequestsTotal:              requests,
		AverageRequestDurationMs:   avgRequestMs,
		AggregationCount:           aggCount,
		AverageAggregationMs:       avgAggMs,
		GeneratorCalls:             genCount,
		GeneratorFailures:          genFailures,
		AverageGeneratorDurationMs: avgGenMs,
		Goroutines:                 runtime.NumGoroutine(),
		GeneratedAt:                time.Now().UTC(),
	}
}
