package analyzer

import (
	"fmt"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// DatabaseAnalyzer detects idle and oversized database instances plus
// non-production cost levers (multi-AZ, auto-stop scheduling).
type DatabaseAnalyzer struct {
	thresholds Thresholds
	costs      Costs
}

// NewDatabaseAnalyzer builds an idle/oversize database detector.
func NewDatabaseAnalyzer(t Thresholds, c Costs) *DatabaseAnalyzer {
	return &DatabaseAnalyzer{thresholds: t, costs: c}
}

func (a *DatabaseAnalyzer) Kind() models.ResourceKind {
	return models.KindDatabase
}

func (a *DatabaseAnalyzer) RequiredMetrics() []string {
	return []string{models.MetricDatabaseCPU, models.MetricDatabaseConns}
}

func (a *DatabaseAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	return analyzeManagedNode(in, managedNodeParams{
		kind:          models.KindDatabase,
		cpuMetric:     models.MetricDatabaseCPU,
		connsMetric:   models.MetricDatabaseConns,
		fallbackMonth: a.costs.DatabaseFallbackMonth,
		supportsStop:  true,
		thresholds:    a.thresholds,
	})
}

// CacheAnalyzer applies the same idle/oversize logic to cache nodes.
// Cache engines cannot be stopped on a schedule, so only the multi-AZ
// lever applies in non-production.
type CacheAnalyzer struct {
	thresholds Thresholds
	costs      Costs
}

// NewCacheAnalyzer builds an idle/oversize cache detector.
func NewCacheAnalyzer(t Thresholds, c Costs) *CacheAnalyzer {
	return &CacheAnalyzer{thresholds: t, costs: c}
}

func (a *CacheAnalyzer) Kind() models.ResourceKind {
	return models.KindCacheNode
}

func (a *CacheAnalyzer) RequiredMetrics() []string {
	return []string{models.MetricCacheCPU, models.MetricCacheConns}
}

func (a *CacheAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	return analyzeManagedNode(in, managedNodeParams{
		kind:          models.KindCacheNode,
		cpuMetric:     models.MetricCacheCPU,
		connsMetric:   models.MetricCacheConns,
		fallbackMonth: a.costs.CacheFallbackMonth,
		supportsStop:  false,
		thresholds:    a.thresholds,
	})
}

type managedNodeParams struct {
	kind          models.ResourceKind
	cpuMetric     string
	connsMetric   string
	fallbackMonth float64
	supportsStop  bool
	thresholds    Thresholds
}

// analyzeManagedNode runs the shared database/cache checks. The checks are
// not mutually exclusive; one node can collect several recommendations.
func analyzeManagedNode(in Input, p managedNodeParams) ([]models.Recommendation, error) {
	t := p.thresholds
	var recs []models.Recommendation

	monthly := monthlyShapeCost(in.Catalog, in.Descriptor.Shape, p.fallbackMonth)

	cpuSeries := in.Series(p.cpuMetric)
	connSeries := in.Series(p.connsMetric)
	meanCPU := mean(cpuSeries.Values())
	meanConns := mean(connSeries.Values())
	hasSignals := !cpuSeries.Empty() && !connSeries.Empty()

	switch {
	case hasSignals && meanConns < t.DBIdleConnections && meanCPU < t.DBIdleCPU:
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              p.kind,
			Action:            models.ActionRemove,
			CurrentShape:      in.Descriptor.Shape,
			Confidence:        models.ConfidenceHigh,
			MonthlySavings:    monthly,
			SavingsPercent:    100,
			PerformanceImpact: models.ImpactNone,
			Reasoning: fmt.Sprintf("averages %.1f connections and %.1f%% CPU over the observation window; nothing is using it",
				meanConns, meanCPU),
		}
		annualize(&rec)
		recs = append(recs, rec)

	case hasSignals && meanConns >= t.DBIdleConnections && meanCPU < t.DBOversizedCPU:
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              p.kind,
			Action:            models.ActionDownsize,
			CurrentShape:      in.Descriptor.Shape,
			Confidence:        models.ConfidenceMedium,
			MonthlySavings:    monthly * t.OversizedSavingsFrac,
			SavingsPercent:    t.OversizedSavingsFrac * 100,
			PerformanceImpact: models.ImpactMinimal,
			Reasoning: fmt.Sprintf("CPU stays under %.0f%% (mean %.1f%%) while %.1f connections remain active; a smaller shape would do",
				t.DBOversizedCPU, meanCPU, meanConns),
		}
		annualize(&rec)
		recs = append(recs, rec)
	}

	// Environment levers stack on top of the usage checks.
	env := DetectEnvironment(in.Descriptor.Attributes.Name)
	if env == EnvironmentNonProduction {
		if in.Descriptor.Attributes.MultiAZ {
			rec := models.Recommendation{
				ResourceID:        in.Descriptor.ID,
				Kind:              p.kind,
				Action:            models.ActionDisableMultiAZ,
				CurrentShape:      in.Descriptor.Shape,
				Confidence:        models.ConfidenceHigh,
				MonthlySavings:    monthly * t.MultiAZSavingsFrac,
				SavingsPercent:    t.MultiAZSavingsFrac * 100,
				PerformanceImpact: models.ImpactNone,
				Reasoning:         "multi-AZ standby doubles the cost; non-production workloads rarely need the failover",
			}
			annualize(&rec)
			recs = append(recs, rec)
		}
		if p.supportsStop {
			rec := models.Recommendation{
				ResourceID:        in.Descriptor.ID,
				Kind:              p.kind,
				Action:            models.ActionScheduleStop,
				CurrentShape:      in.Descriptor.Shape,
				Confidence:        models.ConfidenceMedium,
				MonthlySavings:    monthly * t.AutoStopSavingsFrac,
				SavingsPercent:    t.AutoStopSavingsFrac * 100,
				PerformanceImpact: models.ImpactMinimal,
				Reasoning:         "non-production instance; stopping nights and weekends saves roughly two thirds of runtime",
			}
			annualize(&rec)
			recs = append(recs, rec)
		}
	}

	return recs, nil
}
