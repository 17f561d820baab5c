package quality

import "math"

// defaultDimensionWeight applies when a dimension scored by the judge has no
// weight in the rubric's weight map.
const defaultDimensionWeight = 0.2

// ComputeScore combines per-dimension scores (1-10) and red-flag penalties
// into a single 0-100 score.
//
// The weighted mean of the dimension scores is mapped onto a 0-100 scale,
// then the sum of triggered penalties is subtracted and the result clamped.
// Weights need not sum to 1; normalization handles arbitrary totals.
func ComputeScore(dimensions map[string]int, weights map[string]float64, redFlagPenalty float64) int {
	var weightedSum, weightTotal float64
	for name, score := range dimensions {
		weight, ok := weights[name]
		if !ok {
			weight = defaultDimensionWeight
		}
		weightedSum += float64(score) * weight
		weightTotal += weight
	}

	var base float64
	if weightTotal > 0 {
		base = weightedSum / weightTotal * 10
	}

	final := base - redFlagPenalty
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	return int(math.Round(final))
}

// clampDimensionScore forces an oracle-supplied score into the 1-10 range.
func clampDimensionScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
