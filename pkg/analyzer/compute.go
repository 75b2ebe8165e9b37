package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// ComputeAnalyzer proposes cheaper instance shapes for under-utilized
// compute resources.
type ComputeAnalyzer struct {
	thresholds Thresholds
}

// NewComputeAnalyzer builds a compute rightsizing analyzer.
func NewComputeAnalyzer(t Thresholds) *ComputeAnalyzer {
	return &ComputeAnalyzer{thresholds: t}
}

func (a *ComputeAnalyzer) Kind() models.ResourceKind {
	return models.KindCompute
}

func (a *ComputeAnalyzer) RequiredMetrics() []string {
	return []string{models.MetricComputeCPU, models.MetricComputeMemory}
}

func (a *ComputeAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	t := a.thresholds

	current, ok := in.Catalog.Lookup(in.Descriptor.Shape)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShape, in.Descriptor.Shape)
	}

	cpuSeries := in.Series(models.MetricComputeCPU)
	if cpuSeries.Empty() {
		// Nothing to size against.
		return nil, nil
	}
	cpu := cpuSeries.Values()
	meanCPU := mean(cpu)
	maxCPU := maxValue(cpu)

	memSeries := in.Series(models.MetricComputeMemory)
	hasMemory := !memSeries.Empty()
	meanMemory := 0.0
	if hasMemory {
		meanMemory = mean(memSeries.Values())
	}

	// Already working for its money.
	if meanCPU > t.WellUtilizedMean && maxCPU > t.WellUtilizedMax {
		return nil, nil
	}

	confidence := confidenceFromSamples(len(cpu), t)
	warnings := []string{}
	if !hasMemory {
		// No in-guest agent; the memory estimate is a guess.
		confidence = confidence.Downgrade()
		warnings = append(warnings, "no memory metrics available; memory requirement estimated at half of current capacity")
	}

	requiredVCPU := int(math.Ceil(float64(current.Capacity.VCPU) *
		math.Max(meanCPU/t.CPUTargetMean, maxCPU/t.CPUTargetMax)))
	if requiredVCPU < 1 {
		requiredVCPU = 1
	}

	var requiredMemory float64
	if hasMemory {
		requiredMemory = current.Capacity.MemoryGiB * (meanMemory / t.MemoryTarget)
	} else {
		requiredMemory = current.Capacity.MemoryGiB * t.MemoryFallback
	}
	if requiredMemory < 0.5 {
		requiredMemory = 0.5
	}

	best, found := a.pickCandidate(in, current, requiredVCPU, requiredMemory)
	if !found {
		return nil, nil
	}

	archChanged := best.Capacity.Architecture != current.Capacity.Architecture
	if archChanged {
		warnings = append(warnings,
			fmt.Sprintf("architecture change %s -> %s; verify workload compatibility before migrating",
				current.Capacity.Architecture, best.Capacity.Architecture))
		confidence = confidence.Downgrade()
	}

	monthly := (current.HourlyPrice - best.HourlyPrice) * models.HoursPerMonth

	shrinks := best.Capacity.VCPU < current.Capacity.VCPU || best.Capacity.MemoryGiB < current.Capacity.MemoryGiB
	impact := models.ImpactNone
	if shrinks {
		impact = models.ImpactMinimal
		if archChanged || meanCPU > t.WellUtilizedMean || maxCPU > t.ModerateImpactMax {
			impact = models.ImpactModerate
		}
	}

	rec := models.Recommendation{
		ResourceID:        in.Descriptor.ID,
		Kind:              models.KindCompute,
		Action:            models.ActionRightsize,
		CurrentShape:      current.ShapeKey,
		ProposedShape:     best.ShapeKey,
		Confidence:        confidence,
		WorkloadPattern:   ClassifyWorkload(cpu, t),
		MonthlySavings:    monthly,
		SavingsPercent:    (current.HourlyPrice - best.HourlyPrice) / current.HourlyPrice * 100,
		PerformanceImpact: impact,
		Reasoning: fmt.Sprintf(
			"CPU averaged %.1f%% (max %.1f%%) over %d samples; %d vCPU / %.1f GiB covers the observed load, %s costs $%.4f/hr vs $%.4f/hr",
			meanCPU, maxCPU, len(cpu), requiredVCPU, requiredMemory,
			best.ShapeKey, best.HourlyPrice, current.HourlyPrice),
		Warnings: warnings,
	}
	annualize(&rec)
	return []models.Recommendation{rec}, nil
}

// pickCandidate scans the catalog for shapes that cover the required
// capacity, cost less than the current shape, and are not grossly
// oversized, ranking by price plus a small over-provisioning penalty.
func (a *ComputeAnalyzer) pickCandidate(in Input, current models.CatalogEntry, requiredVCPU int, requiredMemory float64) (models.CatalogEntry, bool) {
	t := a.thresholds

	var best models.CatalogEntry
	bestScore := math.Inf(1)
	found := false

	for _, cand := range in.Catalog.Entries() {
		if cand.ShapeKey == current.ShapeKey {
			continue
		}
		// Merged catalogs also carry RDS and ElastiCache node types for
		// the managed-node cost path; those are never valid instance
		// migration targets.
		if managedShape(cand.ShapeKey) {
			continue
		}
		if cand.Capacity.VCPU < requiredVCPU || cand.Capacity.MemoryGiB < requiredMemory {
			continue
		}
		if cand.HourlyPrice >= current.HourlyPrice {
			continue
		}

		vcpuRatio := float64(cand.Capacity.VCPU) / float64(requiredVCPU)
		memRatio := cand.Capacity.MemoryGiB / requiredMemory
		penalty := (vcpuRatio - 1) + (memRatio - 1)
		if penalty > t.OverProvisionMax {
			continue
		}

		score := cand.HourlyPrice + t.PenaltyPriceCoeff*penalty
		// Entries arrive sorted by shape key, so strict less-than keeps
		// ties deterministic.
		if score < bestScore {
			bestScore = score
			best = cand
			found = true
		}
	}
	return best, found
}

// managedShape reports whether a shape key names an RDS or ElastiCache
// node type rather than an EC2 instance type.
func managedShape(key string) bool {
	return strings.HasPrefix(key, "db.") || strings.HasPrefix(key, "cache.")
}
