package quality

import (
	"context"
	"testing"

	"muse/internal/llm"
)

func newTestGrader(responses ...string) *Grader {
	client := &llm.MockClient{Responses: responses}
	return NewGrader(NewJudge(client), nil, nil)
}

func TestGradePassingContent(t *testing.T) {
	grader := newTestGrader(`{"clarity": 8, "engagement": 8, "critique": "clean"}`)

	result, err := grader.Grade(context.Background(), testRubric(), GradeRequest{Content: "good copy"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected pass, got %+v", result)
	}
	if result.Score != 80 {
		t.Fatalf("expected score 80, got %d", result.Score)
	}
}

func TestGradeBannedPhraseForcesFailureDespiteHighScore(t *testing.T) {
	rubric := testRubric()
	rubric.BannedPhrases = []string{"game-changing"}
	grader := newTestGrader(`{"clarity": 10, "engagement": 9, "critique": "stellar"}`)

	result, err := grader.Grade(context.Background(), rubric, GradeRequest{
		Content: "Our game-changing widget is here",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if result.Passed {
		t.Fatal("banned phrase must force failure regardless of score")
	}
	if len(result.HardFails) != 1 || result.HardFails[0] != "game-changing" {
		t.Fatalf("unexpected hard fails: %v", result.HardFails)
	}
	if result.Score < rubric.Threshold {
		t.Fatalf("score should still reflect the judge's opinion, got %d", result.Score)
	}
}

func TestGradeRedFlagPenaltyLowersScore(t *testing.T) {
	rubric := testRubric()
	rubric.RedFlagPatterns = []RedFlagPattern{
		{Pattern: "—", Reason: "em dash", Penalty: 10},
	}
	grader := newTestGrader(`{"clarity": 8, "engagement": 8, "critique": "ok"}`)

	result, err := grader.Grade(context.Background(), rubric, GradeRequest{
		Content: "Bold ideas — delivered daily",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	// Weighted base is 80; the em dash penalty brings it to 70.
	if result.Score != 70 {
		t.Fatalf("expected score 70, got %d", result.Score)
	}
	if len(result.RedFlags) != 1 {
		t.Fatalf("expected 1 red flag, got %v", result.RedFlags)
	}
}

func TestGradePlatformLimitsAdvisoryOnly(t *testing.T) {
	rubric := testRubric()
	rubric.Platforms = map[string]PlatformLimits{
		"twitter": {MaxChars: 5, MaxHashtags: 1},
	}
	grader := newTestGrader(`{"clarity": 9, "engagement": 9}`)

	result, err := grader.Grade(context.Background(), rubric, GradeRequest{
		Content:  "way past the character limit",
		Hashtags: []string{"#a", "#b"},
		Platform: "twitter",
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if len(result.PlatformIssues) != 2 {
		t.Fatalf("expected 2 platform issues, got %v", result.PlatformIssues)
	}
	if !result.Passed {
		t.Fatal("platform issues are advisory and must not fail the verdict")
	}
}

func TestGradeSkipsPlatformCheckWithoutPlatform(t *testing.T) {
	rubric := testRubric()
	rubric.Platforms = map[string]PlatformLimits{"twitter": {MaxChars: 5}}
	grader := newTestGrader(`{"clarity": 9, "engagement": 9}`)

	result, err := grader.Grade(context.Background(), rubric, GradeRequest{Content: "long enough to overflow"})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if result.PlatformIssues != nil {
		t.Fatalf("expected no platform issues without a platform, got %v", result.PlatformIssues)
	}
}

func TestGradeVerdictInvariant(t *testing.T) {
	responses := []string{
		`{"clarity": 3, "engagement": 2, "critique": "weak"}`,
		`{"clarity": 10, "engagement": 10, "critique": "great"}`,
		`not json at all`,
	}
	rubric := testRubric()
	rubric.BannedPhrases = []string{"forbidden"}

	for _, resp := range responses {
		for _, content := range []string{"clean copy", "contains forbidden phrase"} {
			grader := newTestGrader(resp)
			result, err := grader.Grade(context.Background(), rubric, GradeRequest{Content: content})
			if err != nil {
				t.Fatalf("Grade: %v", err)
			}
			want := len(result.HardFails) == 0 && result.Score >= rubric.Threshold
			if result.Passed != want {
				t.Fatalf("verdict invariant violated: passed=%v hard_fails=%v score=%d",
					result.Passed, result.HardFails, result.Score)
			}
		}
	}
}

func TestGradeNeutralFallbackStillProducesResult(t *testing.T) {
	grader := newTestGrader("The oracle rambles with no JSON today.")

	result, err := grader.Grade(context.Background(), testRubric(), GradeRequest{Content: "copy"})
	if err != nil {
		t.Fatalf("Grade must not fail on a malformed oracle response: %v", err)
	}
	if result.Score != 50 {
		t.Fatalf("neutral 5s across dimensions should score 50, got %d", result.Score)
	}
	if result.Critique != parseFailureCritique {
		t.Fatalf("expected parse-failure critique, got %q", result.Critique)
	}
}
