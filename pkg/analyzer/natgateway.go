package analyzer

import (
	"fmt"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// NATGatewayAnalyzer runs three independent checks per gateway: idleness,
// VPC-endpoint substitution, and same-subnet redundancy. They may all fire
// for the same resource.
type NATGatewayAnalyzer struct {
	thresholds Thresholds
	costs      Costs
}

// NewNATGatewayAnalyzer builds a NAT gateway optimizer.
func NewNATGatewayAnalyzer(t Thresholds, c Costs) *NATGatewayAnalyzer {
	return &NATGatewayAnalyzer{thresholds: t, costs: c}
}

func (a *NATGatewayAnalyzer) Kind() models.ResourceKind {
	return models.KindNATGateway
}

func (a *NATGatewayAnalyzer) RequiredMetrics() []string {
	return []string{models.MetricNATConns, models.MetricNATBytesOut}
}

func (a *NATGatewayAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	t := a.thresholds
	var recs []models.Recommendation

	conns := in.Series(models.MetricNATConns)
	bytesOut := in.Series(models.MetricNATBytesOut)
	meanConns := mean(conns.Values())
	dailyBytes := dailyVolume(bytesOut)

	if !conns.Empty() && meanConns < t.NATIdleConnections && dailyBytes < t.NATIdleDailyBytes {
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              models.KindNATGateway,
			Action:            models.ActionRemove,
			Confidence:        confidenceFromSamples(len(conns.Samples), t),
			MonthlySavings:    a.costs.NATGatewayMonthly,
			SavingsPercent:    100,
			PerformanceImpact: models.ImpactNone,
			Reasoning: fmt.Sprintf("averages %.1f active connections and %.2f GiB/day of transfer, below the idle floors",
				meanConns, dailyBytes/float64(1<<30)),
		}
		annualize(&rec)
		recs = append(recs, rec)
	}

	// Gateway endpoints are free; S3/DynamoDB traffic through a NAT
	// gateway pays the per-GB processing rate for nothing.
	if !in.Descriptor.Attributes.HasGatewayEndpoints && dailyBytes > 0 {
		processedGBMonth := dailyBytes / float64(1<<30) * 30
		saving := processedGBMonth * a.costs.NATPerGBProcessed * t.VPCEndpointSavingsFrac
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              models.KindNATGateway,
			Action:            models.ActionAddVPCEndpoints,
			Confidence:        models.ConfidenceMedium,
			MonthlySavings:    saving,
			PerformanceImpact: models.ImpactNone,
			Reasoning: fmt.Sprintf("VPC has no S3/DynamoDB gateway endpoints; roughly %.0f GiB/month of processing could bypass the gateway",
				processedGBMonth*t.VPCEndpointSavingsFrac),
		}
		annualize(&rec)
		recs = append(recs, rec)
	}

	if in.Descriptor.Attributes.RedundantInSubnet {
		rec := models.Recommendation{
			ResourceID:        in.Descriptor.ID,
			Kind:              models.KindNATGateway,
			Action:            models.ActionRemoveDuplicate,
			Confidence:        models.ConfidenceMedium,
			MonthlySavings:    a.costs.NATGatewayMonthly,
			SavingsPercent:    100,
			PerformanceImpact: models.ImpactMinimal,
			Reasoning: fmt.Sprintf("another NAT gateway already serves subnet %s; one gateway per subnet is sufficient",
				in.Descriptor.Attributes.SubnetID),
		}
		annualize(&rec)
		recs = append(recs, rec)
	}

	return recs, nil
}

// dailyVolume scales a byte-volume series to a per-day total.
func dailyVolume(s models.MetricSeries) float64 {
	hours := s.SpanHours()
	if hours == 0 {
		return 0
	}
	return totalVolume(s) / hours * 24
}
