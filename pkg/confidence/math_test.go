package confidence

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	assert.Equal(t, 0.0, Aggregate(nil))
	assert.Equal(t, 0.0, Aggregate([]float64{0.9, 0}))
	assert.InDelta(t, 0.8, Aggregate([]float64{0.8}), 1e-9)
	assert.InDelta(t, math.Sqrt(0.9*0.4), Aggregate([]float64{0.9, 0.4}), 1e-9)
}

func TestDecay(t *testing.T) {
	assert.Equal(t, 0.8, Decay(0.8, 0))
	assert.InDelta(t, 0.72, Decay(0.8, 1), 1e-9)
	assert.InDelta(t, 0.8*0.81, Decay(0.8, 2), 1e-9)
}

func TestWeightedAverage(t *testing.T) {
	assert.Equal(t, 0.0, WeightedAverage(nil, nil))
	assert.Equal(t, 0.0, WeightedAverage([]float64{0.5}, []float64{0.5, 0.5}))
	assert.Equal(t, 0.0, WeightedAverage([]float64{0.5}, []float64{0}))
	assert.InDelta(t, 0.7, WeightedAverage([]float64{0.9, 0.5}, []float64{1, 1}), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.2))
	assert.Equal(t, 1.0, Clamp(1.7))
	assert.Equal(t, 0.42, Clamp(0.42))
}
