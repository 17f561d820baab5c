package quality

import (
	"context"
	"fmt"

	"muse/internal/shared/logging"
)

// Generator produces candidate content. Feedback from the previous failing
// evaluation steers the next attempt; it is empty on the first call. The
// engine is agnostic to how content gets produced.
type Generator interface {
	Generate(ctx context.Context, feedback string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, feedback string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, feedback string) (string, error) {
	return f(ctx, feedback)
}

// Recorder persists a final evaluation. The retry controller records exactly
// once per refinement, on the final result, whatever the outcome.
type Recorder interface {
	Record(brand, contentType, content string, result *EvalResult) error
}

// Refinement is the outcome of a grade-and-refine run: the last content
// produced and its evaluation, whether or not it ultimately passed.
type Refinement struct {
	Content  string      `json:"content"`
	Eval     *EvalResult `json:"eval"`
	Attempts int         `json:"attempts"`
}

// RetryController drives the bounded generate, grade, regenerate loop.
type RetryController struct {
	grader   *Grader
	recorder Recorder
	logger   logging.Logger
	metrics  *Metrics
}

// NewRetryController creates a controller. recorder may be nil to skip
// persistence.
func NewRetryController(grader *Grader, recorder Recorder, logger logging.Logger, metrics *Metrics) *RetryController {
	return &RetryController{
		grader:   grader,
		recorder: recorder,
		logger:   logging.OrNop(logger),
		metrics:  metrics,
	}
}

// RefineOptions carries per-call settings for GradeAndRefine.
type RefineOptions struct {
	Brand string
	// ContentType is "copy" or "image"; it tags the logged entry.
	ContentType string
	Platform    string
	Hashtags    []string
}

// GradeAndRefine generates content, grades it, and regenerates with
// corrective feedback until it passes or rubric.MaxRetries regenerations are
// spent. Exhaustion is not an error: the last (failing) result is returned
// and the caller decides what to do with it.
func (c *RetryController) GradeAndRefine(ctx context.Context, rubric *Rubric, gen Generator, opts RefineOptions) (*Refinement, error) {
	if rubric == nil {
		return nil, fmt.Errorf("rubric is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}

	content, err := gen.Generate(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	result, err := c.grade(ctx, rubric, content, opts)
	if err != nil {
		return nil, err
	}

	attempts := 0
	for !result.Passed && attempts < rubric.MaxRetries {
		attempts++
		feedback := BuildFeedback(result, rubric)
		c.logger.Info("attempt %d/%d for %s: score=%d, regenerating with feedback",
			attempts, rubric.MaxRetries, rubric.Name, result.Score)
		c.metrics.regeneration()

		content, err = gen.Generate(ctx, feedback)
		if err != nil {
			return nil, fmt.Errorf("regenerate (attempt %d): %w", attempts, err)
		}
		result, err = c.grade(ctx, rubric, content, opts)
		if err != nil {
			return nil, err
		}
	}

	if c.recorder != nil {
		if err := c.recorder.Record(opts.Brand, opts.ContentType, content, result); err != nil {
			// Persistence failure must not invalidate a finished evaluation.
			c.logger.Error("failed to record evaluation for %s: %v", opts.Brand, err)
		}
	}

	return &Refinement{Content: content, Eval: result, Attempts: attempts}, nil
}

func (c *RetryController) grade(ctx context.Context, rubric *Rubric, content string, opts RefineOptions) (*EvalResult, error) {
	return c.grader.Grade(ctx, rubric, GradeRequest{
		Content:  content,
		Hashtags: opts.Hashtags,
		Platform: opts.Platform,
	})
}
