package quality

import (
	"strings"
	"testing"
)

func TestBuildFeedbackOrdering(t *testing.T) {
	rubric := testRubric()
	result := &EvalResult{
		Passed:     false,
		Score:      40,
		Dimensions: map[string]int{"clarity": 4, "engagement": 5},
		HardFails:  []string{"game-changing"},
		RedFlags:   []RedFlagHit{{Pattern: "!{2,}", Reason: "shouting", Penalty: 3}},
		Suggestion: "lead with the benefit",
	}

	feedback := BuildFeedback(result, rubric)
	lines := strings.Split(feedback, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 feedback lines, got %d: %q", len(lines), feedback)
	}
	if !strings.HasPrefix(lines[0], "REMOVE these banned phrases: game-changing") {
		t.Fatalf("hard fails must come first, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AVOID these patterns: !{2,} (shouting)") {
		t.Fatalf("red flags must come second, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "clarity (scored 4/10)") {
		t.Fatalf("lowest dimension must come before the next lowest, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "engagement (scored 5/10)") {
		t.Fatalf("expected engagement next, got %q", lines[3])
	}
	if lines[4] != "SUGGESTION: lead with the benefit" {
		t.Fatalf("suggestion must come last, got %q", lines[4])
	}
}

func TestBuildFeedbackLimitsToTwoDimensions(t *testing.T) {
	rubric := &Rubric{
		Name:      "acme",
		Threshold: 70,
		Dimensions: map[string]Dimension{
			"a": {Weight: 1}, "b": {Weight: 1}, "c": {Weight: 1},
		},
	}
	result := &EvalResult{
		Dimensions: map[string]int{"a": 2, "b": 3, "c": 4},
	}

	feedback := BuildFeedback(result, rubric)
	if strings.Count(feedback, "IMPROVE") != 2 {
		t.Fatalf("expected exactly 2 dimension callouts, got %q", feedback)
	}
	if strings.Contains(feedback, "c (scored") {
		t.Fatalf("third-lowest dimension should be omitted, got %q", feedback)
	}
}

func TestBuildFeedbackSkipsHealthyDimensions(t *testing.T) {
	result := &EvalResult{
		Dimensions: map[string]int{"clarity": 8, "engagement": 9},
	}
	if feedback := BuildFeedback(result, testRubric()); feedback != "" {
		t.Fatalf("expected empty feedback for healthy dimensions, got %q", feedback)
	}
}

func TestBuildFeedbackUsesRubricTierText(t *testing.T) {
	rubric := testRubric()
	dim := rubric.Dimensions["clarity"]
	dim.Rubric = map[int]string{
		3: "ideas are scattered across the copy",
		8: "crisp and direct",
	}
	rubric.Dimensions["clarity"] = dim

	result := &EvalResult{Dimensions: map[string]int{"clarity": 3, "engagement": 8}}
	feedback := BuildFeedback(result, rubric)
	if !strings.Contains(feedback, "ideas are scattered across the copy") {
		t.Fatalf("expected the rubric's tier text at the failing score, got %q", feedback)
	}
}

func TestBuildFeedbackFallsBackToNearestLowerTier(t *testing.T) {
	rubric := testRubric()
	dim := rubric.Dimensions["clarity"]
	dim.Rubric = map[int]string{2: "nearly incoherent"}
	rubric.Dimensions["clarity"] = dim

	result := &EvalResult{Dimensions: map[string]int{"clarity": 4, "engagement": 8}}
	feedback := BuildFeedback(result, rubric)
	if !strings.Contains(feedback, "nearly incoherent") {
		t.Fatalf("expected nearest lower tier text, got %q", feedback)
	}
}
