package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

func lbInput(registered, healthy int, requests, bytes []float64) Input {
	const id = "app/web/50dc6c495c0c9188"
	return Input{
		Descriptor: models.ResourceDescriptor{
			ID:   id,
			Kind: models.KindLoadBalancer,
			Attributes: models.Attributes{
				RegisteredTargets: registered,
				HealthyTargets:    healthy,
			},
		},
		Metrics: map[string]models.MetricSeries{
			models.MetricLBRequests:       makeSeries(id, models.MetricLBRequests, requests),
			models.MetricLBProcessedBytes: makeSeries(id, models.MetricLBProcessedBytes, bytes),
		},
	}
}

func TestLoadBalancerNoTargets(t *testing.T) {
	a := NewLoadBalancerAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(lbInput(0, 0, repeat(0, 48, nil), repeat(0, 48, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionRemove, rec.Action)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)
	assert.InDelta(t, 16.20, rec.MonthlySavings, 1e-9)
	assert.Empty(t, rec.Warnings)
}

func TestLoadBalancerAllTargetsUnhealthy(t *testing.T) {
	a := NewLoadBalancerAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(lbInput(3, 0, repeat(0, 48, nil), repeat(0, 48, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ActionReview, recs[0].Action)
	assert.Equal(t, models.ConfidenceMedium, recs[0].Confidence)
}

func TestLoadBalancerZeroTraffic(t *testing.T) {
	a := NewLoadBalancerAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(lbInput(3, 3, repeat(0, 48, nil), repeat(0, 48, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ActionConsiderRemoval, recs[0].Action)
	assert.Equal(t, models.ConfidenceMedium, recs[0].Confidence)
}

func TestLoadBalancerLowTraffic(t *testing.T) {
	a := NewLoadBalancerAnalyzer(DefaultThresholds(), DefaultCosts())

	// 5 requests/hour over 72 hours: below the 10/hour review line.
	recs, err := a.Analyze(lbInput(3, 3, repeat(5, 72, nil), repeat(1024, 72, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ActionReview, recs[0].Action)
	assert.Equal(t, models.ConfidenceLow, recs[0].Confidence)
}

func TestLoadBalancerHealthyTrafficNoRecommendation(t *testing.T) {
	a := NewLoadBalancerAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(lbInput(3, 3, repeat(500, 72, nil), repeat(1<<20, 72, nil)))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// Thin metric coverage weakens every conclusion, even the authoritative
// zero-targets one: the balancer may simply be too new to judge.
func TestLoadBalancerThinDataDowngrades(t *testing.T) {
	a := NewLoadBalancerAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(lbInput(0, 0, repeat(0, 6, nil), repeat(0, 6, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionRemove, rec.Action)
	assert.Equal(t, models.ConfidenceLow, rec.Confidence)
	require.Len(t, rec.Warnings, 1)
	assert.Contains(t, rec.Warnings[0], "6 hours")
}
