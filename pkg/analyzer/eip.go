package analyzer

import (
	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// ElasticIPAnalyzer flags allocated addresses that are associated with
// nothing. Association status is authoritative, not sampled, so the check
// needs no metrics and always reports high confidence.
type ElasticIPAnalyzer struct {
	costs Costs
}

// NewElasticIPAnalyzer builds an unused-address detector.
func NewElasticIPAnalyzer(c Costs) *ElasticIPAnalyzer {
	return &ElasticIPAnalyzer{costs: c}
}

func (a *ElasticIPAnalyzer) Kind() models.ResourceKind {
	return models.KindElasticIP
}

func (a *ElasticIPAnalyzer) RequiredMetrics() []string {
	return nil
}

func (a *ElasticIPAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	attrs := in.Descriptor.Attributes

	// Any one association means the address is in use.
	if attrs.InstanceID != "" || attrs.NetworkInterfaceID != "" || attrs.AssociationID != "" {
		return nil, nil
	}

	rec := models.Recommendation{
		ResourceID:        in.Descriptor.ID,
		Kind:              models.KindElasticIP,
		Action:            models.ActionRelease,
		Confidence:        models.ConfidenceHigh,
		MonthlySavings:    a.costs.ElasticIPMonthly,
		SavingsPercent:    100,
		PerformanceImpact: models.ImpactNone,
		Reasoning:         "address has no instance, network interface, or association; it is billed while unused",
	}
	annualize(&rec)
	return []models.Recommendation{rec}, nil
}
