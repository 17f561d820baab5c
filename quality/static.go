package quality

import (
	"fmt"
	"regexp"
	"strings"

	"muse/internal/shared/logging"
)

// RedFlagHit records a red-flag pattern that matched the content.
type RedFlagHit struct {
	Pattern string  `json:"pattern"`
	Reason  string  `json:"reason"`
	Penalty float64 `json:"penalty"`
}

// CheckBannedPhrases returns every banned phrase found in text. Matching is
// case-insensitive substring search; any match is a hard fail regardless of
// numeric score.
func CheckBannedPhrases(text string, banned []string) []string {
	lower := strings.ToLower(text)
	var matches []string
	for _, phrase := range banned {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			matches = append(matches, phrase)
		}
	}
	return matches
}

// CheckRedFlags scans text against the rubric's red-flag patterns. Patterns
// compile case-insensitively; a pattern that fails to compile is skipped and
// logged so one bad rubric entry cannot block grading.
func CheckRedFlags(text string, patterns []RedFlagPattern, logger logging.Logger) []RedFlagHit {
	logger = logging.OrNop(logger)
	var hits []RedFlagHit
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p.Pattern)
		if err != nil {
			logger.Warn("skipping invalid red-flag pattern %q: %v", p.Pattern, err)
			continue
		}
		if re.MatchString(text) {
			hits = append(hits, RedFlagHit{Pattern: p.Pattern, Reason: p.Reason, Penalty: p.Penalty})
		}
	}
	return hits
}

// CheckPlatformLimits flags character and hashtag overages for a platform.
// Overages are advisory issues, not hard fails.
func CheckPlatformLimits(text string, hashtags []string, platform string, limits PlatformLimits) []string {
	var issues []string
	if limits.MaxChars > 0 && len([]rune(text)) > limits.MaxChars {
		issues = append(issues, fmt.Sprintf("%s: content is %d chars, limit is %d",
			platform, len([]rune(text)), limits.MaxChars))
	}
	if limits.MaxHashtags > 0 && len(hashtags) > limits.MaxHashtags {
		issues = append(issues, fmt.Sprintf("%s: %d hashtags, limit is %d",
			platform, len(hashtags), limits.MaxHashtags))
	}
	return issues
}
