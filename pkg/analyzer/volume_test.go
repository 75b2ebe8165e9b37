package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

func volumeInput(storageType string, sizeGiB int64, attached bool) Input {
	return Input{
		Descriptor: models.ResourceDescriptor{
			ID:   "vol-0abc123",
			Kind: models.KindVolume,
			Attributes: models.Attributes{
				StorageType: storageType,
				SizeGiB:     sizeGiB,
				Attached:    attached,
			},
		},
	}
}

func TestVolumeUnattached(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(volumeInput("gp3", 100, false))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionDeleteVolume, rec.Action)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)
	assert.InDelta(t, 100*0.08, rec.MonthlySavings, 1e-9)
}

func TestVolumeGp2Migration(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(volumeInput("gp2", 200, true))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionMigrateGP3, rec.Action)
	assert.Equal(t, "gp2", rec.CurrentShape)
	assert.Equal(t, "gp3", rec.ProposedShape)
	// 200 GiB * ($0.10 - $0.08).
	assert.InDelta(t, 4.0, rec.MonthlySavings, 1e-9)
	assert.InDelta(t, 20.0, rec.SavingsPercent, 1e-9)
}

// An unattached gp2 volume collects both recommendations.
func TestVolumeUnattachedGp2Stacks(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(volumeInput("gp2", 100, false))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []models.Action{
		models.ActionDeleteVolume,
		models.ActionMigrateGP3,
	}, actions(recs))
	assert.InDelta(t, 100*0.10, recs[0].MonthlySavings, 1e-9)
}

func TestVolumeTinyGp2BelowNoiseFloor(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultThresholds(), DefaultCosts())

	// 40 GiB saves only $0.80/month on migration: below the $1 floor.
	recs, err := a.Analyze(volumeInput("gp2", 40, true))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestVolumeAttachedGp3NoRecommendation(t *testing.T) {
	a := NewVolumeAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(volumeInput("gp3", 500, true))
	require.NoError(t, err)
	assert.Empty(t, recs)
}
