package analyzer

import "github.com/opscart/cloud-waste-advisor/pkg/models"

// ClassifyWorkload labels the shape of a CPU utilization series.
//
// Check order is deliberate: a mostly-idle resource is dev/test even when
// it also shows high variance, because the actionable signal there is
// scheduling or shutdown, not instance-family choice.
func ClassifyWorkload(cpu []float64, t Thresholds) models.WorkloadPattern {
	if len(cpu) == 0 {
		return models.PatternUnknown
	}

	if fractionBelow(cpu, t.IdleCPUFloor) > t.DevTestIdleFrac {
		return models.PatternDevTest
	}

	m := mean(cpu)
	cv := coefficientOfVariation(cpu)
	swing := maxValue(cpu) - minValue(cpu)

	if cv > t.PeakyCoV || swing > t.PeakySwing {
		return models.PatternPeaky
	}
	if cv < t.SteadyCoV && m > t.SteadyMinMean {
		return models.PatternSteady
	}
	return models.PatternUnknown
}
