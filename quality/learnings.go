package quality

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	jsonx "muse/internal/shared/json"
	"muse/internal/shared/logging"
)

// Content types tagged on log entries.
const (
	ContentTypeCopy  = "copy"
	ContentTypeImage = "image"
)

// minCommonCount is the occurrence threshold for a red flag or issue to be
// considered recurring.
const minCommonCount = 2

// CopyLearnings summarizes historical copy evaluations for a brand.
type CopyLearnings struct {
	WeakDimensions []string `json:"weak_dimensions"`
	CommonRedFlags []string `json:"common_red_flags"`
	Avoid          []string `json:"avoid"`
	Prefer         []string `json:"prefer"`
}

// ImageLearnings summarizes historical image evaluations for a brand.
type ImageLearnings struct {
	WeakAreas    []string `json:"weak_areas"`
	CommonIssues []string `json:"common_issues"`
	Avoid        []string `json:"avoid"`
	Prefer       []string `json:"prefer"`
}

// Learnings is the per-brand profile mined from the eval log. It is a
// derived, disposable cache: recomputed wholesale, never patched
// incrementally, and fully reproducible from the log alone.
type Learnings struct {
	SampleSize int            `json:"sample_size"`
	Updated    string         `json:"updated"`
	Copy       CopyLearnings  `json:"copy"`
	Image      ImageLearnings `json:"image"`
}

// advice pairs avoid and prefer guidance for one weak signal.
type advice struct {
	avoid  []string
	prefer []string
}

// dimensionAdvice maps weak dimension names to curated guidance. This is an
// explainable heuristic layer, not a learned model; unmapped names
// contribute nothing.
var dimensionAdvice = map[string]advice{
	"clarity": {
		avoid:  []string{"vague language", "meandering sentences"},
		prefer: []string{"short punchy sentences", "one idea per paragraph"},
	},
	"engagement": {
		avoid:  []string{"flat openers", "burying the point below the fold"},
		prefer: []string{"a hook in the first line", "direct questions to the reader"},
	},
	"brand_voice": {
		avoid:  []string{"generic corporate phrasing", "tone drift between sentences"},
		prefer: []string{"the brand's established vocabulary", "a consistent register throughout"},
	},
	"originality": {
		avoid:  []string{"stock phrases and cliches", "reheating the last campaign's framing"},
		prefer: []string{"a concrete detail only this brand can claim", "an unexpected angle on the topic"},
	},
	"call_to_action": {
		avoid:  []string{"multiple competing asks", "passive closers"},
		prefer: []string{"one clear next step", "an action verb in the final line"},
	},
	"accuracy": {
		avoid:  []string{"unverifiable claims", "superlatives without evidence"},
		prefer: []string{"specific numbers with sources", "claims the product actually supports"},
	},
	"composition": {
		avoid:  []string{"cluttered focal areas", "text crowding the subject"},
		prefer: []string{"a single clear focal point", "generous negative space"},
	},
	"legibility": {
		avoid:  []string{"low-contrast text overlays", "more than two typefaces"},
		prefer: []string{"high contrast between text and background", "short overlay text"},
	},
	"brand_consistency": {
		avoid:  []string{"off-palette colors", "unapproved logo treatments"},
		prefer: []string{"the brand palette", "approved logo placement"},
	},
}

// redFlagAdvice maps recurring red-flag patterns in copy to avoid guidance.
var redFlagAdvice = map[string][]string{
	"—":              {"em dashes; use commas or periods instead"},
	"!{2,}":               {"stacked exclamation marks"},
	`(?i)\bvery\b`:        {"intensifiers like 'very' that add no meaning"},
	`(?i)\bliterally\b`:   {"'literally' as filler"},
	`#\w+\s*#\w+\s*#\w+`:  {"hashtag pileups in the body text"},
	`(?i)\bsynergy\b`:     {"business jargon like 'synergy'"},
}

// Aggregator mines the eval log into per-brand learnings profiles.
type Aggregator struct {
	log    *EvalLog
	dir    string
	logger logging.Logger
}

// NewAggregator creates an aggregator writing profiles under dir.
func NewAggregator(log *EvalLog, dir string, logger logging.Logger) *Aggregator {
	return &Aggregator{log: log, dir: dir, logger: logging.OrNop(logger)}
}

// Aggregate scans the full log and builds the brand's learnings profile.
// Zero matching entries yields an all-empty profile with SampleSize 0.
func (a *Aggregator) Aggregate(brand string) (*Learnings, error) {
	var copyEntries, imageEntries []EvalLogEntry
	err := a.log.Scan(func(entry EvalLogEntry) error {
		if entry.Brand != brand {
			return nil
		}
		switch entry.Type {
		case ContentTypeImage:
			imageEntries = append(imageEntries, entry)
		default:
			// Entries written before the type field existed are copy.
			copyEntries = append(copyEntries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aggregate learnings for %s: %w", brand, err)
	}

	learnings := &Learnings{
		SampleSize: len(copyEntries) + len(imageEntries),
		Updated:    time.Now().UTC().Format("2006-01-02"),
	}

	copyWeak := weakDimensions(copyEntries)
	copyCommon := commonStrings(redFlagStrings(copyEntries))
	learnings.Copy = CopyLearnings{
		WeakDimensions: copyWeak,
		CommonRedFlags: copyCommon,
	}
	learnings.Copy.Avoid, learnings.Copy.Prefer = deriveAdvice(copyWeak, copyCommon)

	imageWeak := weakDimensions(imageEntries)
	imageCommon := commonStrings(redFlagStrings(imageEntries))
	learnings.Image = ImageLearnings{
		WeakAreas:    imageWeak,
		CommonIssues: imageCommon,
	}
	learnings.Image.Avoid, learnings.Image.Prefer = deriveAdvice(imageWeak, nil)

	a.logger.Debug("aggregated learnings for %s: samples=%d weak_copy=%d weak_image=%d",
		brand, learnings.SampleSize, len(copyWeak), len(imageWeak))

	return learnings, nil
}

// Rebuild aggregates the brand's learnings and persists them.
func (a *Aggregator) Rebuild(brand string) (*Learnings, error) {
	learnings, err := a.Aggregate(brand)
	if err != nil {
		return nil, err
	}
	if err := SaveLearnings(a.dir, brand, learnings); err != nil {
		return nil, err
	}
	return learnings, nil
}

// weakDimensions returns dimensions whose historical mean is below the weak
// floor, weakest first. Ties break alphabetically for stable output.
func weakDimensions(entries []EvalLogEntry) []string {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, entry := range entries {
		for name, score := range entry.Dimensions {
			sums[name] += score
			counts[name]++
		}
	}

	type dimMean struct {
		name string
		mean float64
	}
	var weak []dimMean
	for name, sum := range sums {
		mean := float64(sum) / float64(counts[name])
		if mean < float64(weakDimensionFloor) {
			weak = append(weak, dimMean{name: name, mean: mean})
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].mean != weak[j].mean {
			return weak[i].mean < weak[j].mean
		}
		return weak[i].name < weak[j].name
	})

	names := make([]string, 0, len(weak))
	for _, d := range weak {
		names = append(names, d.name)
	}
	return names
}

func redFlagStrings(entries []EvalLogEntry) []string {
	var flags []string
	for _, entry := range entries {
		flags = append(flags, entry.RedFlags...)
	}
	return flags
}

// commonStrings returns values appearing at least minCommonCount times,
// most frequent first. Ties break alphabetically.
func commonStrings(values []string) []string {
	counts := make(map[string]int)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		counts[v]++
	}

	type freq struct {
		value string
		count int
	}
	var common []freq
	for value, count := range counts {
		if count >= minCommonCount {
			common = append(common, freq{value: value, count: count})
		}
	}
	sort.Slice(common, func(i, j int) bool {
		if common[i].count != common[j].count {
			return common[i].count > common[j].count
		}
		return common[i].value < common[j].value
	})

	out := make([]string, 0, len(common))
	for _, f := range common {
		out = append(out, f.value)
	}
	return out
}

// deriveAdvice looks up each weak dimension (and each common red flag) in
// the curated tables, deduplicating while preserving order.
func deriveAdvice(weakDims, commonFlags []string) (avoid, prefer []string) {
	seenAvoid := make(map[string]bool)
	seenPrefer := make(map[string]bool)

	for _, name := range weakDims {
		entry, ok := dimensionAdvice[name]
		if !ok {
			continue
		}
		for _, a := range entry.avoid {
			if !seenAvoid[a] {
				seenAvoid[a] = true
				avoid = append(avoid, a)
			}
		}
		for _, p := range entry.prefer {
			if !seenPrefer[p] {
				seenPrefer[p] = true
				prefer = append(prefer, p)
			}
		}
	}

	for _, pattern := range commonFlags {
		for _, a := range redFlagAdvice[pattern] {
			if !seenAvoid[a] {
				seenAvoid[a] = true
				avoid = append(avoid, a)
			}
		}
	}

	return avoid, prefer
}

// SaveLearnings writes a brand's learnings profile under dir.
func SaveLearnings(dir, brand string, learnings *Learnings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create learnings dir: %w", err)
	}
	data, err := jsonx.MarshalIndent(learnings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode learnings: %w", err)
	}
	path := filepath.Join(dir, brand+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write learnings: %w", err)
	}
	return nil
}

// LoadLearnings reads a brand's learnings profile. A missing file returns
// an empty profile, not an error.
func LoadLearnings(dir, brand string) (*Learnings, error) {
	data, err := os.ReadFile(filepath.Join(dir, brand+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Learnings{}, nil
		}
		return nil, fmt.Errorf("read learnings: %w", err)
	}
	var learnings Learnings
	if err := jsonx.Unmarshal(data, &learnings); err != nil {
		return nil, fmt.Errorf("decode learnings: %w", err)
	}
	return &learnings, nil
}
