package analyzer

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func minValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// stdDevPop is the population standard deviation.
func stdDevPop(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - m
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

// coefficientOfVariation measures relative variability: stddev / mean.
// Zero-mean series report 0 rather than dividing by zero.
func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	return stdDevPop(values) / m
}

// fractionBelow is the share of samples strictly under the floor.
func fractionBelow(values []float64, floor float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if v < floor {
			n++
		}
	}
	return float64(n) / float64(len(values))
}
