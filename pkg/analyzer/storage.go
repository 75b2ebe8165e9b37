package analyzer

import (
	"fmt"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// StorageAnalyzer inspects a bounded sample of object metadata per bucket
// and proposes lifecycle policies and storage-class transitions. Savings
// from the two checks are additive.
type StorageAnalyzer struct {
	thresholds Thresholds
	costs      Costs
}

// NewStorageAnalyzer builds an object-storage tiering analyzer.
func NewStorageAnalyzer(t Thresholds, c Costs) *StorageAnalyzer {
	return &StorageAnalyzer{thresholds: t, costs: c}
}

func (a *StorageAnalyzer) Kind() models.ResourceKind {
	return models.KindBucket
}

func (a *StorageAnalyzer) RequiredMetrics() []string {
	return nil
}

func (a *StorageAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	t := a.thresholds

	sample := in.Descriptor.Attributes.ObjectSample
	if len(sample) == 0 {
		return nil, nil
	}
	if len(sample) > t.ObjectSampleCap {
		sample = sample[:t.ObjectSampleCap]
	}

	var (
		standardBytes     int64
		agedStandardBytes int64
		agedObjects       int
	)
	for _, obj := range sample {
		age := in.Now.Sub(obj.LastModified)
		aged := age.Hours() > 90*24
		if aged {
			agedObjects++
		}
		if obj.StorageClass == "STANDARD" || obj.StorageClass == "" {
			standardBytes += obj.SizeBytes
			if aged {
				agedStandardBytes += obj.SizeBytes
			}
		}
	}

	priceDelta := a.costs.S3StandardGBMonth - a.costs.S3InfrequentGBMonth
	var recs []models.Recommendation

	agedFraction := float64(agedObjects) / float64(len(sample))
	if !in.Descriptor.Attributes.HasLifecyclePolicy && agedFraction > t.AgedObjectFraction {
		saving := gib(agedStandardBytes) * priceDelta
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              models.KindBucket,
			Action:            models.ActionLifecyclePolicy,
			Confidence:        models.ConfidenceHigh,
			MonthlySavings:    saving,
			PerformanceImpact: models.ImpactNone,
			Reasoning: fmt.Sprintf("%.0f%% of %d sampled objects are older than 90 days and no lifecycle policy exists",
				agedFraction*100, len(sample)),
		}
		annualize(&rec)
		recs = append(recs, rec)
	}

	standardGiB := gib(standardBytes)
	if standardGiB > t.StandardMinGiB {
		eligibleGiB := standardGiB * t.IAEligibleFraction
		saving := eligibleGiB * priceDelta
		// Trivial savings are noise, not recommendations.
		if saving > t.MinMonthlySavings {
			rec := models.Recommendation{
				ResourceID:        in.Descriptor.ID,
				Kind:              models.KindBucket,
				Action:            models.ActionClassTransition,
				Confidence:        models.ConfidenceMedium,
				MonthlySavings:    saving,
				PerformanceImpact: models.ImpactMinimal,
				Reasoning: fmt.Sprintf("%.0f GiB in Standard; moving an estimated %.0f GiB to Infrequent Access saves $%.4f/GiB-month",
					standardGiB, eligibleGiB, priceDelta),
			}
			annualize(&rec)
			recs = append(recs, rec)
		}
	}

	return recs, nil
}

func gib(bytes int64) float64 {
	return float64(bytes) / float64(1<<30)
}
