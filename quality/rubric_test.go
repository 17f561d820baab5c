package quality

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleRubricYAML = `
name: acme
version: "1.2"
threshold: 70
max_retries: 2
dimensions:
  clarity:
    weight: 0.6
    description: Is the message easy to follow?
    rubric:
      3: ideas are scattered
      8: crisp and direct
  engagement:
    weight: 0.4
banned_phrases:
  - game-changing
red_flag_patterns:
  - pattern: "!{2,}"
    reason: shouting
    penalty: 3
platforms:
  twitter:
    max_chars: 280
    max_hashtags: 3
judge_prompt: Rate this content for the acme brand.
`

func writeRubric(t *testing.T, dir, brand, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, brand+".yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write rubric: %v", err)
	}
}

func TestRubricStoreLoad(t *testing.T) {
	dir := t.TempDir()
	writeRubric(t, dir, "acme", sampleRubricYAML)

	store, err := NewRubricStore(dir)
	if err != nil {
		t.Fatalf("NewRubricStore: %v", err)
	}
	rubric, err := store.Load("acme")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rubric.Threshold != 70 || rubric.MaxRetries != 2 {
		t.Fatalf("unexpected rubric: %+v", rubric)
	}
	if rubric.Dimensions["clarity"].Weight != 0.6 {
		t.Fatalf("unexpected clarity weight: %v", rubric.Dimensions["clarity"].Weight)
	}
	if rubric.Dimensions["clarity"].Rubric[3] != "ideas are scattered" {
		t.Fatalf("tier text lost: %+v", rubric.Dimensions["clarity"])
	}
	if rubric.Platforms["twitter"].MaxChars != 280 {
		t.Fatalf("platform limits lost: %+v", rubric.Platforms)
	}
}

func TestRubricStoreCachesForProcessLifetime(t *testing.T) {
	dir := t.TempDir()
	writeRubric(t, dir, "acme", sampleRubricYAML)

	store, err := NewRubricStore(dir)
	if err != nil {
		t.Fatalf("NewRubricStore: %v", err)
	}
	first, err := store.Load("acme")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Remove the file; the cached rubric must still be served.
	if err := os.Remove(filepath.Join(dir, "acme.yaml")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := store.Load("acme")
	if err != nil {
		t.Fatalf("Load after removal: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached rubric instance")
	}
}

func TestRubricStoreMissingBrand(t *testing.T) {
	store, err := NewRubricStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRubricStore: %v", err)
	}
	_, err = store.Load("ghost")
	if !errors.Is(err, ErrNoRubric) {
		t.Fatalf("expected ErrNoRubric, got %v", err)
	}
}

func TestRubricValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Rubric)
	}{
		{"missing name", func(r *Rubric) { r.Name = "" }},
		{"threshold out of range", func(r *Rubric) { r.Threshold = 150 }},
		{"negative retries", func(r *Rubric) { r.MaxRetries = -1 }},
		{"no dimensions", func(r *Rubric) { r.Dimensions = nil }},
		{"negative weight", func(r *Rubric) {
			r.Dimensions["clarity"] = Dimension{Weight: -1}
		}},
	}
	for _, tc := range cases {
		rubric := testRubric()
		tc.mutate(rubric)
		if err := rubric.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
	if err := testRubric().Validate(); err != nil {
		t.Fatalf("valid rubric rejected: %v", err)
	}
}

func TestRubricDimensionNamesSorted(t *testing.T) {
	names := testRubric().DimensionNames()
	if len(names) != 2 || names[0] != "clarity" || names[1] != "engagement" {
		t.Fatalf("expected sorted dimension names, got %v", names)
	}
}
