package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// WeightedMean calculates the mean of values weighted by counts.
// Used for histogram expectation values: each distinct outcome's energy
// weighted by its observed frequency.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	total := floats.Sum(weights)
	if total == 0 {
		return 0
	}
	return stat.Mean(values, weights)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Min returns the smallest value in the slice, or +Inf for an empty slice
func Min(data []float64) float64 {
	if len(data) == 0 {
		return math.Inf(1)
	}
	return floats.Min(data)
}

// Max returns the largest value in the slice, or -Inf for an empty slice
func Max(data []float64) float64 {
	if len(data) == 0 {
		return math.Inf(-1)
	}
	return floats.Max(data)
}

// RunningMin returns the element-wise running minimum of a series.
// The optimizer's best-seen energy trace is the running minimum of its
// evaluation history.
func RunningMin(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	out := make([]float64, len(data))
	best := data[0]
	for i, v := range data {
		if v < best {
			best = v
		}
		out[i] = best
	}
	return out
}
