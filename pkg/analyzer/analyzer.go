package analyzer

import (
	"errors"
	"strings"
	"time"

	"github.com/opscart/cloud-waste-advisor/pkg/catalog"
	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// ErrUnknownShape means the resource's shape is absent from the catalog.
// No decision can be made, so the resource is skipped for that analyzer;
// this is informational, not a run error.
var ErrUnknownShape = errors.New("shape not in catalog")

// Input is everything one analyzer invocation sees. Now is the injected
// run timestamp; analyzers never read the system clock.
type Input struct {
	Descriptor models.ResourceDescriptor
	Metrics    map[string]models.MetricSeries
	Catalog    *catalog.Catalog
	Now        time.Time
}

// Series returns the named series, empty when the provider had no data.
func (in Input) Series(name string) models.MetricSeries {
	return in.Metrics[name]
}

// Analyzer inspects one resource and emits zero or more recommendations.
// Implementations are pure: no I/O, no clock, no logging.
type Analyzer interface {
	Kind() models.ResourceKind

	// RequiredMetrics lists the canonical metric names the orchestrator
	// should fetch before calling Analyze. Empty means no metrics needed.
	RequiredMetrics() []string

	Analyze(in Input) ([]models.Recommendation, error)
}

// confidenceFromSamples derives confidence from sample volume alone.
// Roughly 60 days of hourly samples for high, 20 for medium.
func confidenceFromSamples(n int, t Thresholds) models.ConfidenceLevel {
	switch {
	case n >= t.HighConfidenceSamples:
		return models.ConfidenceHigh
	case n >= t.MediumConfidenceSamples:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// Environment is a coarse production/non-production split, detected from
// resource naming when no explicit tag is available.
type Environment string

const (
	EnvironmentProduction    Environment = "production"
	EnvironmentNonProduction Environment = "non-production"
	EnvironmentUnknown       Environment = "unknown"
)

var nonProdNamePatterns = []string{"dev", "develop", "test", "staging", "stage", "stg", "sandbox", "demo", "uat", "qa"}
var prodNamePatterns = []string{"prod", "production", "prd"}

// DetectEnvironment classifies a resource name. Production patterns win
// over non-production ones so "test-prod-db" is treated as production.
func DetectEnvironment(name string) Environment {
	name = strings.ToLower(name)
	if name == "" {
		return EnvironmentUnknown
	}
	for _, p := range prodNamePatterns {
		if strings.Contains(name, p) {
			return EnvironmentProduction
		}
	}
	for _, p := range nonProdNamePatterns {
		if strings.Contains(name, p) {
			return EnvironmentNonProduction
		}
	}
	return EnvironmentUnknown
}

// monthlyShapeCost resolves a shape's monthly price from the catalog,
// falling back to a fixed per-kind estimate when the shape is unknown.
func monthlyShapeCost(cat *catalog.Catalog, shape string, fallback float64) float64 {
	if cat != nil {
		if entry, ok := cat.Lookup(shape); ok {
			return entry.MonthlyPrice()
		}
	}
	return fallback
}

// annualize fills the derived savings fields on a recommendation.
func annualize(rec *models.Recommendation) {
	rec.AnnualSavings = rec.MonthlySavings * 12
}
