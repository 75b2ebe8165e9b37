package analyzer

import (
	"fmt"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

// LoadBalancerAnalyzer detects idle and under-used load balancers from
// target registration state and traffic volume.
type LoadBalancerAnalyzer struct {
	thresholds Thresholds
	costs      Costs
}

// NewLoadBalancerAnalyzer builds an idle load balancer detector.
func NewLoadBalancerAnalyzer(t Thresholds, c Costs) *LoadBalancerAnalyzer {
	return &LoadBalancerAnalyzer{thresholds: t, costs: c}
}

func (a *LoadBalancerAnalyzer) Kind() models.ResourceKind {
	return models.KindLoadBalancer
}

func (a *LoadBalancerAnalyzer) RequiredMetrics() []string {
	return []string{models.MetricLBRequests, models.MetricLBProcessedBytes}
}

func (a *LoadBalancerAnalyzer) Analyze(in Input) ([]models.Recommendation, error) {
	t := a.thresholds
	attrs := in.Descriptor.Attributes

	requests := in.Series(models.MetricLBRequests)
	bytes := in.Series(models.MetricLBProcessedBytes)
	dataHours := requests.SpanHours()
	if bytes.SpanHours() > dataHours {
		dataHours = bytes.SpanHours()
	}

	var rec *models.Recommendation
	switch {
	case attrs.RegisteredTargets == 0:
		rec = &models.Recommendation{
			Action:         models.ActionRemove,
			Confidence:     models.ConfidenceHigh,
			MonthlySavings: a.costs.LoadBalancerMonthly,
			SavingsPercent: 100,
			Reasoning:      "no targets registered; the load balancer serves nothing",
		}

	case attrs.HealthyTargets == 0:
		rec = &models.Recommendation{
			Action:         models.ActionReview,
			Confidence:     models.ConfidenceMedium,
			MonthlySavings: a.costs.LoadBalancerMonthly,
			SavingsPercent: 100,
			Reasoning: fmt.Sprintf("all %d registered targets are unhealthy; traffic cannot be served",
				attrs.RegisteredTargets),
		}

	case dataHours >= t.LBMinDataHours && totalVolume(requests)+totalVolume(bytes) == 0:
		rec = &models.Recommendation{
			Action:         models.ActionConsiderRemoval,
			Confidence:     models.ConfidenceMedium,
			MonthlySavings: a.costs.LoadBalancerMonthly,
			SavingsPercent: 100,
			Reasoning: fmt.Sprintf("zero requests and zero bytes over %.0f hours despite healthy targets",
				dataHours),
		}

	case dataHours >= t.LBLowTrafficHours && hourlyRate(requests) < t.LBLowHourlyReqs:
		rec = &models.Recommendation{
			Action:         models.ActionReview,
			Confidence:     models.ConfidenceLow,
			MonthlySavings: a.costs.LoadBalancerMonthly,
			SavingsPercent: 100,
			Reasoning: fmt.Sprintf("traffic averages %.1f requests/hour over %.0f hours, below the %.0f/hour review threshold",
				hourlyRate(requests), dataHours, t.LBLowHourlyReqs),
		}
	}

	if rec == nil {
		return nil, nil
	}

	// Thin data makes every traffic conclusion weak.
	if dataHours < t.LBMinDataHours {
		rec.Confidence = models.ConfidenceLow
		rec.Warnings = append(rec.Warnings,
			fmt.Sprintf("only %.0f hours of metric data available", dataHours))
	}

	rec.ResourceID = in.Descriptor.ID
	rec.Kind = models.KindLoadBalancer
	rec.PerformanceImpact = models.ImpactNone
	annualize(rec)
	return []models.Recommendation{*rec}, nil
}

func totalVolume(s models.MetricSeries) float64 {
	sum := 0.0
	for _, sample := range s.Samples {
		sum += sample.Value
	}
	return sum
}

// hourlyRate converts a volume series to an average per-hour rate.
func hourlyRate(s models.MetricSeries) float64 {
	hours := s.SpanHours()
	if hours == 0 {
		return 0
	}
	return totalVolume(s) / hours
}
