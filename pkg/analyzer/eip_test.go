package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

func eipInput(attrs models.Attributes) Input {
	return Input{
		Descriptor: models.ResourceDescriptor{
			ID:         "eipalloc-1234",
			Kind:       models.KindElasticIP,
			Attributes: attrs,
		},
	}
}

func TestElasticIPUnused(t *testing.T) {
	a := NewElasticIPAnalyzer(DefaultCosts())

	recs, err := a.Analyze(eipInput(models.Attributes{}))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionRelease, rec.Action)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)
	assert.Equal(t, models.ImpactNone, rec.PerformanceImpact)
	assert.InDelta(t, 3.65, rec.MonthlySavings, 1e-9)
	assert.InDelta(t, 43.80, rec.AnnualSavings, 1e-9)
}

// Any one populated association field means the address is in use.
func TestElasticIPAssociatedVariants(t *testing.T) {
	a := NewElasticIPAnalyzer(DefaultCosts())

	cases := []models.Attributes{
		{InstanceID: "i-abc"},
		{NetworkInterfaceID: "eni-abc"},
		{AssociationID: "eipassoc-abc"},
	}
	for _, attrs := range cases {
		recs, err := a.Analyze(eipInput(attrs))
		require.NoError(t, err)
		assert.Empty(t, recs)
	}
}

func TestElasticIPNeedsNoMetrics(t *testing.T) {
	a := NewElasticIPAnalyzer(DefaultCosts())
	assert.Empty(t, a.RequiredMetrics())
}
