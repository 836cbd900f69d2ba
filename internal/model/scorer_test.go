package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestArtifact(t *testing.T) *Artifact {
	t.Helper()
	a, err := LoadEmbedded()
	require.NoError(t, err)
	return a
}

func TestLoadEmbedded(t *testing.T) {
	a := loadTestArtifact(t)

	assert.Equal(t, 16, len(a.Features))
	assert.Equal(t, len(a.Features), len(a.DisplayNames))
	assert.Equal(t, len(a.Features), len(a.Means))
	assert.Equal(t, []string{"On Time", "Slightly Delayed", "Heavily Delayed"}, a.Classes)
	for _, w := range a.Weights {
		assert.Equal(t, len(a.Features), len(w))
	}
}

func TestEncode(t *testing.T) {
	a := loadTestArtifact(t)

	v, ok := a.Encode("bus_type", "Semi Luxury")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	_, ok = a.Encode("bus_type", "Sleeper")
	assert.False(t, ok)

	_, ok = a.Encode("no_such_field", "x")
	assert.False(t, ok)
}

func TestOptionsInEncodingOrder(t *testing.T) {
	a := loadTestArtifact(t)

	assert.Equal(t,
		[]string{"Clear", "Cloudy", "Light Rain", "Moderate Rain", "Heavy Rain"},
		a.Options("weather"))
	assert.Equal(t, []string{"Low", "Medium", "High"}, a.Options("crowding_level"))
	assert.Nil(t, a.Options("no_such_field"))
}

func TestScoreProbabilitiesSumToOne(t *testing.T) {
	s := NewScorer(loadTestArtifact(t))

	row := make([]float64, 16)
	copy(row, []float64{3, 37, 0, 75, 10, 0, 0, 1, 0, 0, 0, 0, 0, 0, 3, 2})

	res, err := s.Score(row)
	require.NoError(t, err)
	require.Len(t, res.Probabilities, 3)

	var sum float64
	for _, p := range res.Probabilities {
		assert.GreaterOrEqual(t, p, 0.0)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, res.ClassIdx, argmax(res.Probabilities))
}

func TestScoreBenignTripIsOnTime(t *testing.T) {
	s := NewScorer(loadTestArtifact(t))

	// Route 04-2, Normal bus, quiet weekday morning, clear weather, low
	// crowding, departing on schedule.
	row := []float64{3, 37, 0, 75, 10, 0, 0, 1, 0, 0, 0, 0, 0, 0, 3, 2}
	res, err := s.Score(row)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ClassIdx)
}

func TestScoreRoughTripIsHeavilyDelayed(t *testing.T) {
	s := NewScorer(loadTestArtifact(t))

	// Route 01, heavy rain, high crowding, 30 min late out of the terminal,
	// festival weekend evening peak.
	row := []float64{0, 116, 0, 210, 17, 30, 30, 3, 4, 2, 1, 1, 0, 1, 4, 5}
	res, err := s.Score(row)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ClassIdx)
}

func TestScoreRowLengthMismatch(t *testing.T) {
	s := NewScorer(loadTestArtifact(t))
	_, err := s.Score([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestAttributions(t *testing.T) {
	a := loadTestArtifact(t)
	s := NewScorer(a)

	row := []float64{0, 116, 0, 210, 17, 30, 30, 3, 4, 2, 1, 1, 0, 1, 4, 5}
	attrs, err := s.Attributions(row, 2)
	require.NoError(t, err)
	require.Len(t, attrs, len(a.Features))

	// Deviation above the mean with a positive class-2 weight must yield a
	// positive contribution.
	assert.Positive(t, attrs["Departure Delay"])
	assert.Positive(t, attrs["Weather"])
	assert.Positive(t, attrs["Crowding Level"])
	// Weekend pushes against the heavy-delay class.
	assert.Negative(t, attrs["Weekend"])

	// Contributions are rounded to display precision.
	for name, v := range attrs {
		assert.InDelta(t, v, math.Round(v*10000)/10000, 1e-12, name)
	}

	_, err = s.Attributions(row, 9)
	assert.Error(t, err)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("/nonexistent/model.json")
	assert.Error(t, err)
}

func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
