package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceDowngrade(t *testing.T) {
	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Downgrade())
	assert.Equal(t, ConfidenceLow, ConfidenceMedium.Downgrade())
	// Low is the floor.
	assert.Equal(t, ConfidenceLow, ConfidenceLow.Downgrade())
}

func TestConfidenceAtLeast(t *testing.T) {
	assert.True(t, ConfidenceHigh.AtLeast(ConfidenceMedium))
	assert.True(t, ConfidenceMedium.AtLeast(ConfidenceMedium))
	assert.False(t, ConfidenceLow.AtLeast(ConfidenceMedium))
}

func TestMetricSeriesSpanHours(t *testing.T) {
	s := MetricSeries{PeriodSeconds: 3600}
	for i := 0; i < 48; i++ {
		s.Samples = append(s.Samples, Sample{
			Timestamp: time.Date(2026, 1, 1, i, 0, 0, 0, time.UTC),
			Value:     float64(i),
		})
	}
	assert.Equal(t, 48.0, s.SpanHours())
	assert.Len(t, s.Values(), 48)
	assert.False(t, s.Empty())
	assert.True(t, MetricSeries{}.Empty())
}

func TestCatalogEntryMonthlyPrice(t *testing.T) {
	e := CatalogEntry{HourlyPrice: 0.0832}
	assert.InDelta(t, 59.904, e.MonthlyPrice(), 1e-9)
}

func TestAllRecommendationsKindOrder(t *testing.T) {
	r := &AnalysisResult{
		RecommendationsByKind: map[ResourceKind][]Recommendation{
			KindNATGateway: {{ResourceID: "nat-1"}},
			KindCompute:    {{ResourceID: "i-1"}, {ResourceID: "i-2"}},
			KindElasticIP:  {{ResourceID: "eip-1"}},
		},
	}

	all := r.AllRecommendations()
	assert.Equal(t, 4, r.RecommendationCount())
	// Flattening follows the canonical kind order, not map order.
	assert.Equal(t, "i-1", all[0].ResourceID)
	assert.Equal(t, "i-2", all[1].ResourceID)
	assert.Equal(t, "eip-1", all[2].ResourceID)
	assert.Equal(t, "nat-1", all[3].ResourceID)
}
