package analyzer

import (
	"fmt"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// VolumeAnalyzer flags unattached block volumes and gp2 volumes that would
// be cheaper as gp3. Attachment state is authoritative, so no metrics are
// needed.
type VolumeAnalyzer struct {
	thresholds Thresholds
	costs      Costs
}

// NewVolumeAnalyzer builds a block-volume waste detector.
func NewVolumeAnalyzer(t Thresholds, c Costs) *VolumeAnalyzer {
	return &VolumeAnalyzer{thresholds: t, costs: c}
}

func (a *VolumeAnalyzer) Kind() models.ResourceKind {
	return models.KindVolume
}

func (a *VolumeAnalyzer) RequiredMetrics() []string {
	return nil
}

func (a *VolumeAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	t := a.thresholds
	attrs := in.Descriptor.Attributes
	var recs []models.Recommendation

	gbMonth := a.costs.EBSGp2GBMonth
	if attrs.StorageType == "gp3" {
		gbMonth = a.costs.EBSGp3GBMonth
	}

	if !attrs.Attached {
		saving := float64(attrs.SizeGiB) * gbMonth
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              models.KindVolume,
			Action:            models.ActionDeleteVolume,
			CurrentShape:      attrs.StorageType,
			Confidence:        models.ConfidenceHigh,
			MonthlySavings:    saving,
			SavingsPercent:    100,
			PerformanceImpact: models.ImpactNone,
			Reasoning: fmt.Sprintf("%d GiB %s volume is not attached to any instance; snapshot and delete it",
				attrs.SizeGiB, attrs.StorageType),
		}
		annualize(&rec)
		recs = append(recs, rec)
	}

	if attrs.StorageType == "gp2" && attrs.SizeGiB >= t.VolumeGP3MinSizeGiB {
		saving := float64(attrs.SizeGiB) * (a.costs.EBSGp2GBMonth - a.costs.EBSGp3GBMonth)
		if saving > t.MinMonthlySavings {
			rec := models.Recommendation{
				ResourceID:        in.Descriptor.ID,
				Kind:              models.KindVolume,
				Action:            models.ActionMigrateGP3,
				CurrentShape:      "gp2",
				ProposedShape:     "gp3",
				Confidence:        models.ConfidenceHigh,
				MonthlySavings:    saving,
				SavingsPercent:    (a.costs.EBSGp2GBMonth - a.costs.EBSGp3GBMonth) / a.costs.EBSGp2GBMonth * 100,
				PerformanceImpact: models.ImpactNone,
				Reasoning: fmt.Sprintf("gp3 matches gp2 baseline performance at a lower rate; %d GiB migrates in place",
					attrs.SizeGiB),
			}
			annualize(&rec)
			recs = append(recs, rec)
		}
	}

	return recs, nil
}
