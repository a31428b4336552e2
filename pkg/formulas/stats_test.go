package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
}

func TestWeightedMean(t *testing.T) {
	// Histogram-style expectation: energy -1 seen 3 times, energy 1 seen 1 time
	values := []float64{-1, 1}
	weights := []float64{3, 1}
	assert.InDelta(t, -0.5, WeightedMean(values, weights), 1e-12)

	assert.Equal(t, 0.0, WeightedMean(nil, nil))
	assert.Equal(t, 0.0, WeightedMean([]float64{1}, []float64{1, 2}))
	assert.Equal(t, 0.0, WeightedMean([]float64{1, 2}, []float64{0, 0}))
}

func TestStdDevAndVariance(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, math.Sqrt(Variance(data)), StdDev(data), 1e-12)
}

func TestMinMax(t *testing.T) {
	data := []float64{3, -1, 2}
	assert.Equal(t, -1.0, Min(data))
	assert.Equal(t, 3.0, Max(data))
	assert.True(t, math.IsInf(Min(nil), 1))
	assert.True(t, math.IsInf(Max(nil), -1))
}

func TestRunningMin(t *testing.T) {
	assert.Nil(t, RunningMin(nil))

	got := RunningMin([]float64{3, 5, 1, 2, 0.5, 4})
	want := []float64{3, 3, 1, 1, 0.5, 0.5}
	assert.Equal(t, want, got)

	// Running minimum is non-increasing
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i], got[i-1])
	}
}
