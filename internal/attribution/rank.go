// Package attribution turns raw per-feature attribution scores into the
// ranked, display-ready bars shown next to each prediction.
package attribution

import (
	"math"
	"sort"
)

// Colors for the two-color sign encoding.
const (
	ColorPositive = "positive"
	ColorNegative = "negative"
)

// Headroom keeps the longest bar off the chart's axis edge.
const headroom = 1.1

// Bar is one display row of the attribution chart.
type Bar struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
	Color   string  `json:"color"`
	// Length is the bar length normalized to (0, 1], scaled against the
	// largest absolute score in the selected set.
	Length float64 `json:"length"`
}

// Rank selects the topN scores by absolute magnitude and returns bars in
// descending magnitude order. Ties on magnitude fall back to feature name so
// the ordering is deterministic.
func Rank(scores map[string]float64, topN int) []Bar {
	if topN <= 0 || len(scores) == 0 {
		return nil
	}

	bars := make([]Bar, 0, len(scores))
	for feature, score := range scores {
		color := ColorPositive
		if score < 0 {
			color = ColorNegative
		}
		bars = append(bars, Bar{Feature: feature, Score: score, Color: color})
	}

	sort.Slice(bars, func(i, j int) bool {
		ai, aj := math.Abs(bars[i].Score), math.Abs(bars[j].Score)
		if ai != aj {
			return ai > aj
		}
		return bars[i].Feature < bars[j].Feature
	})

	if topN < len(bars) {
		bars = bars[:topN]
	}

	maxAbs := math.Abs(bars[0].Score)
	for i := range bars {
		if maxAbs > 0 {
			bars[i].Length = math.Abs(bars[i].Score) / (maxAbs * headroom)
		}
	}

	return bars
}
