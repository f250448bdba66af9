package models

import "time"

// SystemMetrics is a lightweight instrumentation snapshot for API consumption.
type SystemMetrics struct {
	CacheHitRatio              float64   `json:"cache_hit_ratio"`
	CacheHits                  uint64    `json:"cache_hits"`
	CacheMisses                uint64    `json:"cache_misses"`
	RequestsTotal              uint64    `json:"requests_total"`
	AverageRequestDurationMs   float64   `json:"average_request_duration_ms"`
	AggregationCount           uint64    `json:"aggregation_count"`
	AverageAggregationMs       float64   `json:"average_aggregation_ms"`
	GeneratorCalls             uint64    `json:"generator_calls"`
	GeneratorFailures          uint64    `json:"generator_failures"`
	AverageGeneratorDurationMs float64   `json:"average_generator_duration_ms"`
	Goroutines                 int       `json:"goroutines"`
	GeneratedAt                time.Time `json:"generated_at"`
}
