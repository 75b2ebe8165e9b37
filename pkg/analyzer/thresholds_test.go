package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuningOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `thresholds:
  cpuTargetMean: 60
  minMonthlySavings: 5
costs:
  elasticIpMonthly: 4.10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	thresholds, costs, err := LoadTuning(path)
	require.NoError(t, err)

	// Overridden values.
	assert.Equal(t, 60.0, thresholds.CPUTargetMean)
	assert.Equal(t, 5.0, thresholds.MinMonthlySavings)
	assert.Equal(t, 4.10, costs.ElasticIPMonthly)

	// Untouched fields keep their defaults.
	defaults := DefaultThresholds()
	assert.Equal(t, defaults.CPUTargetMax, thresholds.CPUTargetMax)
	assert.Equal(t, defaults.HighConfidenceSamples, thresholds.HighConfidenceSamples)
	assert.Equal(t, DefaultCosts().NATGatewayMonthly, costs.NATGatewayMonthly)
}

func TestLoadTuningMissingFile(t *testing.T) {
	thresholds, costs, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	// Errors still hand back usable defaults.
	assert.Equal(t, DefaultThresholds(), thresholds)
	assert.Equal(t, DefaultCosts(), costs)
}

func TestConfidenceFromSamples(t *testing.T) {
	thresholds := DefaultThresholds()

	assert.Equal(t, "high", string(confidenceFromSamples(1440, thresholds)))
	assert.Equal(t, "medium", string(confidenceFromSamples(1439, thresholds)))
	assert.Equal(t, "medium", string(confidenceFromSamples(480, thresholds)))
	assert.Equal(t, "low", string(confidenceFromSamples(479, thresholds)))
	assert.Equal(t, "low", string(confidenceFromSamples(0, thresholds)))
}
