package models

import "time"

// Canonical metric names the engine requests from a MetricProvider. The
// provider translates them to whatever its backend calls them.
const (
	MetricComputeCPU       = "compute.cpu_utilization"
	MetricComputeMemory    = "compute.memory_utilization"
	MetricDatabaseCPU      = "database.cpu_utilization"
	MetricDatabaseConns    = "database.connections"
	MetricCacheCPU         = "cache.cpu_utilization"
	MetricCacheConns       = "cache.connections"
	MetricLBRequests       = "loadbalancer.request_count"
	MetricLBProcessedBytes = "loadbalancer.processed_bytes"
	MetricNATConns         = "natgateway.active_connections"
	MetricNATBytesOut      = "natgateway.bytes_out"
)

// Sample is a single metric data point.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries holds time-ordered utilization samples for one resource and
// one signal. Samples are ordered by timestamp ascending and may be empty
// when the backend has no data.
type MetricSeries struct {
	ResourceID    string   `json:"resourceId"`
	MetricName    string   `json:"metricName"`
	PeriodSeconds int      `json:"periodSeconds"`
	Samples       []Sample `json:"samples"`
}

// Empty reports whether the series carries no data.
func (s MetricSeries) Empty() bool {
	return len(s.Samples) == 0
}

// Values extracts the sample values in order.
func (s MetricSeries) Values() []float64 {
	values := make([]float64, len(s.Samples))
	for i, sample := range s.Samples {
		values[i] = sample.Value
	}
	return values
}

// SpanHours is the time the series covers, derived from sample count and
// period rather than timestamps so sparse data does not overstate coverage.
func (s MetricSeries) SpanHours() float64 {
	return float64(len(s.Samples)*s.PeriodSeconds) / 3600.0
}
