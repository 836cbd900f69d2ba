package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Scorer evaluates an artifact against encoded feature rows.
type Scorer struct {
	artifact *Artifact
	weights  []*mat.VecDense // one weight vector per class
	means    *mat.VecDense
}

// NewScorer prepares the weight vectors for repeated scoring.
func NewScorer(a *Artifact) *Scorer {
	s := &Scorer{
		artifact: a,
		weights:  make([]*mat.VecDense, len(a.Weights)),
		means:    mat.NewVecDense(len(a.Means), append([]float64(nil), a.Means...)),
	}
	for c, w := range a.Weights {
		s.weights[c] = mat.NewVecDense(len(w), append([]float64(nil), w...))
	}
	return s
}

// Artifact returns the loaded artifact backing this scorer.
func (s *Scorer) Artifact() *Artifact { return s.artifact }

// Result is the outcome of scoring one feature row.
type Result struct {
	ClassIdx      int
	Probabilities []float64
}

// Score computes class probabilities for one encoded row and returns the
// argmax class.
func (s *Scorer) Score(row []float64) (*Result, error) {
	if len(row) != len(s.artifact.Features) {
		return nil, fmt.Errorf("row has %d values, model expects %d", len(row), len(s.artifact.Features))
	}

	x := mat.NewVecDense(len(row), row)
	logits := make([]float64, len(s.weights))
	for c, w := range s.weights {
		logits[c] = s.artifact.Bases[c] + mat.Dot(w, x)
	}

	probs := softmax(logits)
	best := 0
	for c, p := range probs {
		if p > probs[best] {
			best = c
		}
	}

	return &Result{ClassIdx: best, Probabilities: probs}, nil
}

// Attributions returns the signed per-feature contribution to the chosen
// class, keyed by display name: weight times the feature's deviation from
// its training mean.
func (s *Scorer) Attributions(row []float64, classIdx int) (map[string]float64, error) {
	if classIdx < 0 || classIdx >= len(s.weights) {
		return nil, fmt.Errorf("class index %d out of range", classIdx)
	}
	if len(row) != len(s.artifact.Features) {
		return nil, fmt.Errorf("row has %d values, model expects %d", len(row), len(s.artifact.Features))
	}

	w := s.weights[classIdx]
	out := make(map[string]float64, len(row))
	for i, name := range s.artifact.DisplayNames {
		out[name] = round4(w.AtVec(i) * (row[i] - s.means.AtVec(i)))
	}
	return out, nil
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// Round4 rounds to 4 decimal places, the precision the UI displays.
func Round4(v float64) float64 { return round4(v) }

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
