package quality

import "testing"

func TestCheckBannedPhrasesCaseInsensitive(t *testing.T) {
	text := "This GAME-Changing tool will disrupt the market."
	matches := CheckBannedPhrases(text, []string{"game-changing", "disrupt"})
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %v", matches)
	}
}

func TestCheckBannedPhrasesOrderIndependent(t *testing.T) {
	text := "a revolutionary, game-changing launch"
	forward := CheckBannedPhrases(text, []string{"game-changing", "revolutionary"})
	reverse := CheckBannedPhrases(text, []string{"revolutionary", "game-changing"})
	if len(forward) != 2 || len(reverse) != 2 {
		t.Fatalf("expected both orders to find 2 matches, got %v and %v", forward, reverse)
	}
}

func TestCheckBannedPhrasesNoMatch(t *testing.T) {
	if matches := CheckBannedPhrases("plain copy", []string{"game-changing"}); matches != nil {
		t.Fatalf("expected no matches, got %v", matches)
	}
}

func TestCheckRedFlagsCaseInsensitive(t *testing.T) {
	patterns := []RedFlagPattern{{Pattern: `\bsynergy\b`, Reason: "jargon", Penalty: 5}}
	hits := CheckRedFlags("Unlock SYNERGY today", patterns, nil)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %v", hits)
	}
	if hits[0].Penalty != 5 {
		t.Fatalf("expected penalty 5, got %v", hits[0].Penalty)
	}
}

func TestCheckRedFlagsSkipsInvalidPattern(t *testing.T) {
	patterns := []RedFlagPattern{
		{Pattern: `(unclosed`, Reason: "broken", Penalty: 5},
		{Pattern: `!{2,}`, Reason: "shouting", Penalty: 3},
	}
	hits := CheckRedFlags("Hurry!! Sale ends soon", patterns, nil)
	if len(hits) != 1 {
		t.Fatalf("expected the invalid pattern to be skipped, got %v", hits)
	}
	if hits[0].Pattern != `!{2,}` {
		t.Fatalf("expected the shouting pattern, got %s", hits[0].Pattern)
	}
}

func TestCheckPlatformLimits(t *testing.T) {
	limits := PlatformLimits{MaxChars: 10, MaxHashtags: 2}
	issues := CheckPlatformLimits("this is far too long", []string{"#a", "#b", "#c"}, "twitter", limits)
	if len(issues) != 2 {
		t.Fatalf("expected char and hashtag issues, got %v", issues)
	}
}

func TestCheckPlatformLimitsWithinBounds(t *testing.T) {
	limits := PlatformLimits{MaxChars: 100, MaxHashtags: 5}
	if issues := CheckPlatformLimits("short", []string{"#a"}, "twitter", limits); issues != nil {
		t.Fatalf("expected no issues, got %v", issues)
	}
}
