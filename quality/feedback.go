package quality

import (
	"fmt"
	"sort"
	"strings"
)

// weakDimensionFloor is the score below which a dimension earns corrective
// guidance in feedback and counts as weak during learnings aggregation.
const weakDimensionFloor = 7

// maxFeedbackDimensions caps how many low dimensions feedback calls out.
const maxFeedbackDimensions = 2

// BuildFeedback turns a failing EvalResult into corrective guidance for the
// next generation attempt, highest-priority first: hard fails block passing
// outright, so they come before any score-tuning advice.
func BuildFeedback(result *EvalResult, rubric *Rubric) string {
	var lines []string

	if len(result.HardFails) > 0 {
		lines = append(lines, "REMOVE these banned phrases: "+strings.Join(result.HardFails, ", "))
	}

	if len(result.RedFlags) > 0 {
		parts := make([]string, 0, len(result.RedFlags))
		for _, hit := range result.RedFlags {
			if hit.Reason != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", hit.Pattern, hit.Reason))
			} else {
				parts = append(parts, hit.Pattern)
			}
		}
		lines = append(lines, "AVOID these patterns: "+strings.Join(parts, "; "))
	}

	for _, weak := range lowestDimensions(result.Dimensions, maxFeedbackDimensions) {
		line := fmt.Sprintf("IMPROVE %s (scored %d/10)", weak.name, weak.score)
		if tier := dimensionTierText(rubric, weak.name, weak.score); tier != "" {
			line += ": " + tier
		}
		lines = append(lines, line)
	}

	if result.Suggestion != "" {
		lines = append(lines, "SUGGESTION: "+result.Suggestion)
	}

	return strings.Join(lines, "\n")
}

type scoredDimension struct {
	name  string
	score int
}

// lowestDimensions returns up to limit dimensions scoring below the weak
// floor, lowest first. Ties break alphabetically for stable output.
func lowestDimensions(dimensions map[string]int, limit int) []scoredDimension {
	var low []scoredDimension
	for name, score := range dimensions {
		if score < weakDimensionFloor {
			low = append(low, scoredDimension{name: name, score: score})
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].score != low[j].score {
			return low[i].score < low[j].score
		}
		return low[i].name < low[j].name
	})
	if len(low) > limit {
		low = low[:limit]
	}
	return low
}

// dimensionTierText looks up the rubric's own description of a dimension at
// the failing score tier, falling back to the dimension description.
func dimensionTierText(rubric *Rubric, name string, score int) string {
	if rubric == nil {
		return ""
	}
	dim, ok := rubric.Dimensions[name]
	if !ok {
		return ""
	}
	if text, ok := dim.Rubric[score]; ok {
		return text
	}
	// Tier maps are often sparse; use the nearest tier at or below the score.
	for s := score - 1; s >= 1; s-- {
		if text, ok := dim.Rubric[s]; ok {
			return text
		}
	}
	return dim.Description
}
