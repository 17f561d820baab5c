package quality

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"muse/internal/llm"
	jsonx "muse/internal/shared/json"
	"muse/internal/shared/logging"
)

// contentPlaceholder marks where the content under evaluation is substituted
// into a rubric's judge prompt.
const contentPlaceholder = "{{content}}"

// parseFailureCritique is the critique attached when the oracle response
// cannot be parsed.
const parseFailureCritique = "Could not parse evaluation"

// neutralScore is assigned to every dimension when the oracle response is
// unusable. Availability over precision: a malformed judge response degrades
// gracefully instead of halting the pipeline.
const neutralScore = 5

// Judgement is the parsed outcome of one oracle scoring call.
type Judgement struct {
	Dimensions map[string]int `json:"dimensions"`
	Critique   string         `json:"critique"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// Judge scores content against a rubric via an external LLM oracle.
type Judge struct {
	client      llm.Client
	temperature float64
	logger      logging.Logger
	metrics     *Metrics
}

// NewJudge creates a judge backed by the given oracle client.
func NewJudge(client llm.Client, opts ...JudgeOption) *Judge {
	j := &Judge{
		client:      client,
		temperature: 0.2,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// JudgeOption customizes a Judge.
type JudgeOption func(*Judge)

// WithJudgeLogger sets the judge's logger.
func WithJudgeLogger(logger logging.Logger) JudgeOption {
	return func(j *Judge) { j.logger = logging.OrNop(logger) }
}

// WithJudgeMetrics sets the metrics sink for parse-failure counting.
func WithJudgeMetrics(m *Metrics) JudgeOption {
	return func(j *Judge) { j.metrics = m }
}

// WithJudgeTemperature sets the sampling temperature for oracle calls.
func WithJudgeTemperature(t float64) JudgeOption {
	return func(j *Judge) { j.temperature = t }
}

// Score sends content to the oracle and returns one score per rubric
// dimension. Parse failures never surface as errors: every dimension falls
// back to the neutral score and the critique notes the failure. Transport
// errors from the oracle do propagate; retry policy belongs to the client.
func (j *Judge) Score(ctx context.Context, rubric *Rubric, content string) (*Judgement, error) {
	prompt := buildJudgePrompt(rubric, content)

	resp, err := j.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are a strict brand-content reviewer. Output ONLY valid JSON."},
			{Role: "user", Content: prompt},
		},
		Temperature: j.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("judge oracle call: %w", err)
	}

	judgement, ok := parseJudgement(resp.Content, rubric)
	if !ok {
		j.logger.Warn("judge response for rubric %s was not parseable, degrading to neutral scores", rubric.Name)
		j.metrics.judgeParseFailure()
		return neutralJudgement(rubric), nil
	}
	return judgement, nil
}

// buildJudgePrompt renders the rubric's judge prompt around the content and
// appends the response contract so the oracle knows which keys to emit.
func buildJudgePrompt(rubric *Rubric, content string) string {
	var b strings.Builder

	prompt := rubric.JudgePrompt
	if strings.Contains(prompt, contentPlaceholder) {
		prompt = strings.ReplaceAll(prompt, contentPlaceholder, content)
		b.WriteString(prompt)
	} else {
		b.WriteString(prompt)
		b.WriteString("\n\nCONTENT TO EVALUATE:\n")
		b.WriteString(content)
	}

	b.WriteString("\n\nScore each dimension from 1 to 10:\n")
	for _, name := range rubric.DimensionNames() {
		dim := rubric.Dimensions[name]
		b.WriteString("- ")
		b.WriteString(name)
		if dim.Description != "" {
			b.WriteString(": ")
			b.WriteString(dim.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with JSON only, shaped as {")
	for _, name := range rubric.DimensionNames() {
		fmt.Fprintf(&b, "%q: <1-10>, ", name)
	}
	b.WriteString(`"critique": "<one paragraph>", "suggestion": "<optional improvement>"}`)
	return b.String()
}

// parseJudgement extracts a judgement from free-text oracle output. The
// oracle may wrap its JSON in prose or code fences; extraction tolerates
// both, and jsonrepair gets a shot at almost-JSON before giving up.
func parseJudgement(raw string, rubric *Rubric) (*Judgement, bool) {
	candidate := extractJSONObject(raw)
	if candidate == "" {
		return nil, false
	}

	fields, ok := decodeJudgementFields(candidate)
	if !ok {
		repaired, err := jsonrepair.JSONRepair(candidate)
		if err != nil {
			return nil, false
		}
		fields, ok = decodeJudgementFields(repaired)
		if !ok {
			return nil, false
		}
	}

	judgement := &Judgement{Dimensions: make(map[string]int, len(rubric.Dimensions))}
	matched := 0
	for name := range rubric.Dimensions {
		value, present := fields[name]
		if !present {
			judgement.Dimensions[name] = neutralScore
			continue
		}
		num, isNum := value.(float64)
		if !isNum {
			judgement.Dimensions[name] = neutralScore
			continue
		}
		judgement.Dimensions[name] = clampDimensionScore(int(math.Round(num)))
		matched++
	}
	// A response that names none of the rubric's dimensions is noise, not a
	// partial answer.
	if matched == 0 {
		return nil, false
	}

	if critique, ok := fields["critique"].(string); ok {
		judgement.Critique = critique
	}
	if suggestion, ok := fields["suggestion"].(string); ok {
		judgement.Suggestion = suggestion
	}
	return judgement, true
}

func decodeJudgementFields(candidate string) (map[string]any, bool) {
	var fields map[string]any
	if err := jsonx.Unmarshal([]byte(candidate), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// extractJSONObject pulls the outermost {...} span out of free text.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

// neutralJudgement returns the all-neutral fallback for a rubric.
func neutralJudgement(rubric *Rubric) *Judgement {
	dims := make(map[string]int, len(rubric.Dimensions))
	for name := range rubric.Dimensions {
		dims[name] = neutralScore
	}
	return &Judgement{Dimensions: dims, Critique: parseFailureCritique}
}
