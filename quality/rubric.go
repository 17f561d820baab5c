// Package quality implements the content quality control engine: rubric-driven
// grading that combines deterministic static checks with an LLM judge, a
// bounded self-healing regeneration loop, an append-only evaluation log, and
// per-brand learnings mined from that log.
package quality

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// ErrNoRubric reports that a brand has no rubric configured. This is a fatal
// configuration error; callers must not retry it.
var ErrNoRubric = errors.New("no rubric configured for brand")

// Dimension defines a single scoring dimension. The rubric map carries the
// brand's own description of what each score tier means.
type Dimension struct {
	Weight      float64        `yaml:"weight" json:"weight"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Rubric      map[int]string `yaml:"rubric,omitempty" json:"rubric,omitempty"`
}

// RedFlagPattern is a regex-detected stylistic pattern with a score penalty.
type RedFlagPattern struct {
	Pattern string  `yaml:"pattern" json:"pattern"`
	Reason  string  `yaml:"reason" json:"reason"`
	Penalty float64 `yaml:"penalty" json:"penalty"`
}

// PlatformLimits caps content length for a social platform.
type PlatformLimits struct {
	MaxChars    int `yaml:"max_chars" json:"max_chars"`
	MaxHashtags int `yaml:"max_hashtags" json:"max_hashtags"`
}

// Rubric is a brand's scoring configuration. The dimension set is
// rubric-defined, not fixed; everything downstream keys off it dynamically.
type Rubric struct {
	Name            string                    `yaml:"name" json:"name"`
	Version         string                    `yaml:"version,omitempty" json:"version,omitempty"`
	Threshold       int                       `yaml:"threshold" json:"threshold"`
	MaxRetries      int                       `yaml:"max_retries" json:"max_retries"`
	Dimensions      map[string]Dimension      `yaml:"dimensions" json:"dimensions"`
	BannedPhrases   []string                  `yaml:"banned_phrases,omitempty" json:"banned_phrases,omitempty"`
	RedFlagPatterns []RedFlagPattern          `yaml:"red_flag_patterns,omitempty" json:"red_flag_patterns,omitempty"`
	Platforms       map[string]PlatformLimits `yaml:"platforms,omitempty" json:"platforms,omitempty"`
	JudgePrompt     string                    `yaml:"judge_prompt" json:"judge_prompt"`
}

// Validate ensures the rubric is well-formed.
func (r *Rubric) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("rubric name is required")
	}
	if r.Threshold < 0 || r.Threshold > 100 {
		return fmt.Errorf("rubric threshold must be in [0,100], got %d", r.Threshold)
	}
	if r.MaxRetries < 0 {
		return fmt.Errorf("rubric max_retries must be non-negative, got %d", r.MaxRetries)
	}
	if len(r.Dimensions) == 0 {
		return fmt.Errorf("rubric dimensions are required")
	}
	for name, dim := range r.Dimensions {
		if dim.Weight < 0 {
			return fmt.Errorf("rubric dimension %s weight must be non-negative", name)
		}
	}
	return nil
}

// DimensionNames returns the declared dimension names in sorted order.
func (r *Rubric) DimensionNames() []string {
	names := make([]string, 0, len(r.Dimensions))
	for name := range r.Dimensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Weights returns the dimension weight map keyed by dimension name.
func (r *Rubric) Weights() map[string]float64 {
	weights := make(map[string]float64, len(r.Dimensions))
	for name, dim := range r.Dimensions {
		weights[name] = dim.Weight
	}
	return weights
}

// LoadRubricFile loads and validates a rubric from a YAML file.
func LoadRubricFile(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rubric: %w", err)
	}
	var rubric Rubric
	if err := yaml.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("decode rubric: %w", err)
	}
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	return &rubric, nil
}

const rubricCacheSize = 64

// RubricStore loads per-brand rubrics from a directory and caches them for
// the process lifetime. Construct one per process and pass it by reference;
// there is no package-level instance.
type RubricStore struct {
	dir   string
	cache *lru.Cache[string, *Rubric]
}

// NewRubricStore creates a store rooted at dir, where each brand's rubric
// lives at <dir>/<brand>.yaml.
func NewRubricStore(dir string) (*RubricStore, error) {
	cache, err := lru.New[string, *Rubric](rubricCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create rubric cache: %w", err)
	}
	return &RubricStore{dir: dir, cache: cache}, nil
}

// Load returns the rubric for brand, reading it from disk on first use.
// A missing rubric yields ErrNoRubric.
func (s *RubricStore) Load(brand string) (*Rubric, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, fmt.Errorf("brand is required")
	}
	if cached, ok := s.cache.Get(brand); ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, brand+".yaml")
	rubric, err := LoadRubricFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoRubric, brand)
		}
		return nil, err
	}

	s.cache.Add(brand, rubric)
	return rubric, nil
}
