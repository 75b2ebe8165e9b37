package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

func TestParseMatrix(t *testing.T) {
	ts := model.TimeFromUnix(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	matrix := model.Matrix{
		&model.SampleStream{
			Values: []model.SamplePair{
				{Timestamp: ts, Value: 12.5},
				{Timestamp: ts.Add(time.Hour), Value: 14.0},
			},
		},
	}

	samples, err := parseMatrix(matrix)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 12.5, samples[0].Value)
	assert.Equal(t, 14.0, samples[1].Value)
}

// An empty matrix is "no data", never an error.
func TestParseMatrixEmpty(t *testing.T) {
	samples, err := parseMatrix(model.Matrix{})
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestParseMatrixWrongType(t *testing.T) {
	_, err := parseMatrix(model.Vector{})
	assert.ErrorContains(t, err, "unexpected result type")
}

// Every canonical metric name must have a query template.
func TestPrometheusQueriesComplete(t *testing.T) {
	names := []string{
		models.MetricComputeCPU, models.MetricComputeMemory,
		models.MetricDatabaseCPU, models.MetricDatabaseConns,
		models.MetricCacheCPU, models.MetricCacheConns,
		models.MetricLBRequests, models.MetricLBProcessedBytes,
		models.MetricNATConns, models.MetricNATBytesOut,
	}
	for _, name := range names {
		_, ok := prometheusQueries[name]
		assert.True(t, ok, name)
	}
}

func TestNewPrometheusProviderBadURL(t *testing.T) {
	_, err := NewPrometheusProvider("://not-a-url", time.Now(), nil)
	assert.Error(t, err)
}
