package quality

import (
	"context"
	"fmt"

	"muse/internal/shared/logging"
)

// EvalResult is the outcome of grading one piece of content.
//
// Invariant: Passed == (len(HardFails) == 0 && Score >= threshold).
type EvalResult struct {
	Passed         bool           `json:"passed"`
	Score          int            `json:"score"`
	Dimensions     map[string]int `json:"dimensions"`
	HardFails      []string       `json:"hard_fails,omitempty"`
	RedFlags       []RedFlagHit   `json:"red_flags,omitempty"`
	PlatformIssues []string       `json:"platform_issues,omitempty"`
	Critique       string         `json:"critique,omitempty"`
	Suggestion     string         `json:"suggestion,omitempty"`
}

// GradeRequest describes one grading call.
type GradeRequest struct {
	Content  string
	Hashtags []string
	// Platform selects which platform limits apply; empty skips the check.
	Platform string
}

// Grader runs the full static-check + judge + scoring pipeline.
type Grader struct {
	judge   *Judge
	logger  logging.Logger
	metrics *Metrics
}

// NewGrader creates a grader around a judge.
func NewGrader(judge *Judge, logger logging.Logger, metrics *Metrics) *Grader {
	return &Grader{
		judge:   judge,
		logger:  logging.OrNop(logger),
		metrics: metrics,
	}
}

// Grade evaluates content against a brand rubric and produces a verdict.
// The judge always runs, even when a banned phrase already forces failure,
// so the result still carries dimension scores for feedback and learnings.
func (g *Grader) Grade(ctx context.Context, rubric *Rubric, req GradeRequest) (*EvalResult, error) {
	if rubric == nil {
		return nil, fmt.Errorf("rubric is required")
	}

	hardFails := CheckBannedPhrases(req.Content, rubric.BannedPhrases)
	redFlags := CheckRedFlags(req.Content, rubric.RedFlagPatterns, g.logger)

	var platformIssues []string
	if req.Platform != "" {
		if limits, ok := rubric.Platforms[req.Platform]; ok {
			platformIssues = CheckPlatformLimits(req.Content, req.Hashtags, req.Platform, limits)
		}
	}

	judgement, err := g.judge.Score(ctx, rubric, req.Content)
	if err != nil {
		return nil, err
	}

	var penalty float64
	for _, hit := range redFlags {
		penalty += hit.Penalty
	}

	score := ComputeScore(judgement.Dimensions, rubric.Weights(), penalty)
	result := &EvalResult{
		Passed:         len(hardFails) == 0 && score >= rubric.Threshold,
		Score:          score,
		Dimensions:     judgement.Dimensions,
		HardFails:      hardFails,
		RedFlags:       redFlags,
		PlatformIssues: platformIssues,
		Critique:       judgement.Critique,
		Suggestion:     judgement.Suggestion,
	}

	g.metrics.evaluation(rubric.Name, result.Passed)
	g.logger.Debug("graded content for %s: score=%d passed=%v hard_fails=%d red_flags=%d",
		rubric.Name, result.Score, result.Passed, len(hardFails), len(redFlags))

	return result, nil
}
