package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
)

// calculateSharpe computes mean / sample stddev, annualized by sqrt(factor).
// Fewer than two observations or a zero deviation yield Undefined.
func calculateSharpe(observations []float64, factor float64) Ratio {
	if len(observations) < 2 {
		return Undefined
	}

	mean, err := stats.Mean(observations)
	if err != nil {
		return Undefined
	}
	stdDev, err := stats.StandardDeviationSample(observations)
	if err != nil || stdDev == 0 {
		return Undefined
	}

	return Defined(mean / stdDev * math.Sqrt(factor))
}

// calculateSortino uses the same numerator as Sharpe over the deviation of
// observations strictly below target.
func calculateSortino(observations []float64, target, factor float64) Ratio {
	if len(observations) < 2 {
		return Undefined
	}

	var downside []float64
	for _, o := range observations {
		if o < target {
			downside = append(downside, o)
		}
	}
	if len(downside) < 2 {
		return Undefined
	}

	mean, err := stats.Mean(observations)
	if err != nil {
		return Undefined
	}
	downDev, err := stats.StandardDeviationSample(downside)
	if err != nil || downDev == 0 {
		return Undefined
	}

	return Defined(mean / downDev * math.Sqrt(factor))
}
