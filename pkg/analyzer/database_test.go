package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-waste-advisor/pkg/catalog"
	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

func dbInput(name, shape string, multiAZ bool, cpu, conns []float64) Input {
	const id = "orders-db-1"
	return Input{
		Descriptor: models.ResourceDescriptor{
			ID:    id,
			Kind:  models.KindDatabase,
			Shape: shape,
			Attributes: models.Attributes{
				Name:    name,
				Engine:  "postgres",
				MultiAZ: multiAZ,
			},
		},
		Metrics: map[string]models.MetricSeries{
			models.MetricDatabaseCPU:   makeSeries(id, models.MetricDatabaseCPU, cpu),
			models.MetricDatabaseConns: makeSeries(id, models.MetricDatabaseConns, conns),
		},
		Catalog: catalog.Default(),
	}
}

func TestDatabaseIdle(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(dbInput("orders-prod", "db.t3.medium", false,
		repeat(2, 600, nil), repeat(0.2, 600, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionRemove, rec.Action)
	assert.Equal(t, models.ConfidenceHigh, rec.Confidence)

	entry, ok := catalog.Default().Lookup("db.t3.medium")
	require.True(t, ok)
	assert.InDelta(t, entry.MonthlyPrice(), rec.MonthlySavings, 1e-9)
}

func TestDatabaseOversized(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	// Active connections but CPU stays low.
	recs, err := a.Analyze(dbInput("orders-prod", "db.t3.medium", false,
		repeat(8, 600, nil), repeat(12, 600, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, models.ActionDownsize, rec.Action)
	assert.Equal(t, models.ConfidenceMedium, rec.Confidence)

	entry, _ := catalog.Default().Lookup("db.t3.medium")
	assert.InDelta(t, entry.MonthlyPrice()*0.5, rec.MonthlySavings, 1e-9)
}

// Moderate CPU with nobody connected is not oversized; without active
// connections there is no load to size against.
func TestDatabaseNoConnectionsModerateCPUNoRecommendation(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(dbInput("orders-prod", "db.t3.medium", false,
		repeat(10, 600, nil), repeat(0, 600, nil)))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDatabaseHealthyNoRecommendation(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(dbInput("orders-prod", "db.t3.medium", false,
		repeat(45, 600, nil), repeat(30, 600, nil)))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// Non-production databases additionally collect the multi-AZ and
// auto-stop levers on top of whatever the usage checks found.
func TestDatabaseNonProductionLeversStack(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(dbInput("orders-staging", "db.t3.medium", true,
		repeat(8, 600, nil), repeat(12, 600, nil)))
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []models.Action{
		models.ActionDownsize,
		models.ActionDisableMultiAZ,
		models.ActionScheduleStop,
	}, actions(recs))

	entry, _ := catalog.Default().Lookup("db.t3.medium")
	assert.InDelta(t, entry.MonthlyPrice()*0.5, recs[1].MonthlySavings, 1e-9)
	assert.InDelta(t, entry.MonthlyPrice()*0.65, recs[2].MonthlySavings, 1e-9)
}

// Names carrying both markers count as production: "prod" wins.
func TestDatabaseAmbiguousNameIsProduction(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	recs, err := a.Analyze(dbInput("test-prod-replica", "db.t3.medium", true,
		repeat(45, 600, nil), repeat(30, 600, nil)))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCacheIdle(t *testing.T) {
	a := NewCacheAnalyzer(DefaultThresholds(), DefaultCosts())

	const id = "sessions-cache-001"
	in := Input{
		Descriptor: models.ResourceDescriptor{
			ID:         id,
			Kind:       models.KindCacheNode,
			Shape:      "cache.t3.medium",
			Attributes: models.Attributes{Name: "sessions-cache"},
		},
		Metrics: map[string]models.MetricSeries{
			models.MetricCacheCPU:   makeSeries(id, models.MetricCacheCPU, repeat(1, 600, nil)),
			models.MetricCacheConns: makeSeries(id, models.MetricCacheConns, repeat(0, 600, nil)),
		},
		Catalog: catalog.Default(),
	}

	recs, err := a.Analyze(in)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ActionRemove, recs[0].Action)
	assert.Equal(t, models.KindCacheNode, recs[0].Kind)
}

// Cache engines cannot be stopped on a schedule, so a non-production cache
// only gets the multi-AZ lever.
func TestCacheNonProductionHasNoAutoStop(t *testing.T) {
	a := NewCacheAnalyzer(DefaultThresholds(), DefaultCosts())

	const id = "sessions-cache-dev"
	in := Input{
		Descriptor: models.ResourceDescriptor{
			ID:         id,
			Kind:       models.KindCacheNode,
			Shape:      "cache.t3.medium",
			Attributes: models.Attributes{Name: "sessions-dev", MultiAZ: true},
		},
		Metrics: map[string]models.MetricSeries{
			models.MetricCacheCPU:   makeSeries(id, models.MetricCacheCPU, repeat(45, 600, nil)),
			models.MetricCacheConns: makeSeries(id, models.MetricCacheConns, repeat(30, 600, nil)),
		},
		Catalog: catalog.Default(),
	}

	recs, err := a.Analyze(in)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.ActionDisableMultiAZ, recs[0].Action)
}

func TestDetectEnvironment(t *testing.T) {
	cases := []struct {
		name string
		want Environment
	}{
		{"orders-prod", EnvironmentProduction},
		{"payments-production-db", EnvironmentProduction},
		{"orders-staging", EnvironmentNonProduction},
		{"qa-runner", EnvironmentNonProduction},
		{"test-prod-db", EnvironmentProduction},
		{"orders", EnvironmentUnknown},
		{"", EnvironmentUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetectEnvironment(c.name), "name=%q", c.name)
	}
}

func TestDatabaseUnknownShapeUsesFallbackCost(t *testing.T) {
	a := NewDatabaseAnalyzer(DefaultThresholds(), DefaultCosts())

	in := dbInput("orders-prod", "db.x2gd.16xlarge", false,
		repeat(2, 600, nil), repeat(0.2, 600, nil))
	recs, err := a.Analyze(in)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, DefaultCosts().DatabaseFallbackMonth, recs[0].MonthlySavings, 1e-9)
}
