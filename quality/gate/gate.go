// Package gate decides whether a final evaluation clears the bar for
// publishing, and renders a Markdown summary for review-queue notifications.
package gate

import (
	"fmt"
	"strings"

	"muse/quality"
)

// gradeOrder defines the ordinal ranking for letter grades.
// Higher values represent better grades.
var gradeOrder = map[string]int{"A": 5, "B": 4, "C": 3, "D": 2, "F": 1}

// Config holds the thresholds for a publish gate.
type Config struct {
	// MinScore is the minimum 0-100 score required. Default 70.
	MinScore int

	// MinGrade is the minimum letter grade required (A/B/C/D/F). Default "C".
	MinGrade string
}

// DefaultConfig returns the gate thresholds used when none are configured.
func DefaultConfig() Config {
	return Config{MinScore: 70, MinGrade: "C"}
}

// Result captures the outcome of a publish gate check.
type Result struct {
	Passed         bool     `json:"passed"`
	Score          int      `json:"score"`
	Grade          string   `json:"grade"`
	Summary        string   `json:"summary"`
	FailureReasons []string `json:"failure_reasons,omitempty"`
}

// Check evaluates a final EvalResult against the gate thresholds. A hard
// fail or failed verdict blocks publishing regardless of score.
func Check(eval *quality.EvalResult, config Config) *Result {
	result := &Result{
		Passed: true,
		Score:  eval.Score,
		Grade:  GradeFor(eval.Score),
	}

	if len(eval.HardFails) > 0 {
		result.Passed = false
		result.FailureReasons = append(result.FailureReasons,
			"banned phrases present: "+strings.Join(eval.HardFails, ", "))
	}
	if !eval.Passed {
		result.Passed = false
		result.FailureReasons = append(result.FailureReasons, "evaluation verdict is failed")
	}
	if eval.Score < config.MinScore {
		result.Passed = false
		result.FailureReasons = append(result.FailureReasons,
			fmt.Sprintf("score %d is below minimum %d", eval.Score, config.MinScore))
	}
	if !gradeAtLeast(result.Grade, config.MinGrade) {
		result.Passed = false
		result.FailureReasons = append(result.FailureReasons,
			fmt.Sprintf("grade %s is below minimum %s", result.Grade, config.MinGrade))
	}

	result.Summary = FormatSummary(result, eval)
	return result
}

// GradeFor maps a 0-100 score onto the letter-grade ladder.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// FormatSummary returns a Markdown summary suitable for posting to the
// review queue.
func FormatSummary(result *Result, eval *quality.EvalResult) string {
	var sb strings.Builder

	if result.Passed {
		sb.WriteString("## Publish Gate: PASSED\n\n")
	} else {
		sb.WriteString("## Publish Gate: FAILED\n\n")
	}

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Score  | %d |\n", result.Score)
	fmt.Fprintf(&sb, "| Grade  | %s |\n", result.Grade)

	if len(eval.PlatformIssues) > 0 {
		sb.WriteString("\n### Platform Issues\n\n")
		for _, issue := range eval.PlatformIssues {
			fmt.Fprintf(&sb, "- %s\n", issue)
		}
	}

	if len(result.FailureReasons) > 0 {
		sb.WriteString("\n### Failure Reasons\n\n")
		for _, reason := range result.FailureReasons {
			fmt.Fprintf(&sb, "- %s\n", reason)
		}
	}

	if eval.Critique != "" {
		sb.WriteString("\n### Critique\n\n")
		sb.WriteString(eval.Critique)
		sb.WriteString("\n")
	}

	return sb.String()
}

// gradeAtLeast returns true if grade is at least as good as min.
// Unknown grades are treated as the lowest possible rank (0).
func gradeAtLeast(grade, min string) bool {
	return gradeOrder[grade] >= gradeOrder[min]
}
