package quality

import "testing"

func TestComputeScoreWeightedMean(t *testing.T) {
	dims := map[string]int{"clarity": 8, "engagement": 6}
	weights := map[string]float64{"clarity": 0.6, "engagement": 0.4}

	// (8*0.6 + 6*0.4) / 1.0 * 10 = 72
	if got := ComputeScore(dims, weights, 0); got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
}

func TestComputeScoreWeightsNeedNotSumToOne(t *testing.T) {
	dims := map[string]int{"clarity": 8, "engagement": 6}
	weights := map[string]float64{"clarity": 3, "engagement": 2}

	// (24 + 12) / 5 * 10 = 72, same as the normalized weights above.
	if got := ComputeScore(dims, weights, 0); got != 72 {
		t.Fatalf("expected 72, got %d", got)
	}
}

func TestComputeScoreDefaultWeight(t *testing.T) {
	dims := map[string]int{"clarity": 8, "mystery": 4}
	weights := map[string]float64{"clarity": 0.2}

	// Missing weight defaults to 0.2: (8*0.2 + 4*0.2) / 0.4 * 10 = 60.
	if got := ComputeScore(dims, weights, 0); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
}

func TestComputeScoreSubtractsPenalties(t *testing.T) {
	dims := map[string]int{"clarity": 8}
	weights := map[string]float64{"clarity": 1}

	if got := ComputeScore(dims, weights, 10); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
}

func TestComputeScoreClampsToZero(t *testing.T) {
	dims := map[string]int{"clarity": 2}
	weights := map[string]float64{"clarity": 1}

	if got := ComputeScore(dims, weights, 50); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestComputeScoreStaysInRange(t *testing.T) {
	cases := []struct {
		dims    map[string]int
		weights map[string]float64
		penalty float64
	}{
		{map[string]int{"a": 10, "b": 10}, map[string]float64{"a": 1, "b": 1}, 0},
		{map[string]int{"a": 1}, map[string]float64{"a": 0.5}, 200},
		{map[string]int{}, map[string]float64{}, 0},
		{map[string]int{"a": 7, "b": 3, "c": 9}, map[string]float64{"b": 2.5}, 15},
	}
	for i, tc := range cases {
		got := ComputeScore(tc.dims, tc.weights, tc.penalty)
		if got < 0 || got > 100 {
			t.Fatalf("case %d: score %d out of [0,100]", i, got)
		}
	}
}

func TestComputeScoreEmptyDimensions(t *testing.T) {
	if got := ComputeScore(nil, nil, 0); got != 0 {
		t.Fatalf("expected 0 for no dimensions, got %d", got)
	}
}
