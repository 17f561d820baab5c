package quality

import (
	"fmt"
	"strings"
)

// minLearningsSamples gates context injection: a handful of early
// evaluations must not overfit future generation.
const minLearningsSamples = 3

// Injector renders a brand's learnings as prompt text for the next
// independent generation call.
type Injector struct {
	dir string
}

// NewInjector creates an injector reading profiles from dir.
func NewInjector(dir string) *Injector {
	return &Injector{dir: dir}
}

// CopyContext returns guidance text for copy generation, or "" when the
// brand's sample size is below the minimum-evidence gate.
func (i *Injector) CopyContext(brand string) (string, error) {
	learnings, err := LoadLearnings(i.dir, brand)
	if err != nil {
		return "", err
	}
	return renderContext(learnings.SampleSize, learnings.Copy.Avoid, learnings.Copy.Prefer), nil
}

// ImageContext returns guidance text for image generation under the same
// gate as CopyContext.
func (i *Injector) ImageContext(brand string) (string, error) {
	learnings, err := LoadLearnings(i.dir, brand)
	if err != nil {
		return "", err
	}
	return renderContext(learnings.SampleSize, learnings.Image.Avoid, learnings.Image.Prefer), nil
}

func renderContext(sampleSize int, avoid, prefer []string) string {
	if sampleSize < minLearningsSamples {
		return ""
	}
	if len(avoid) == 0 && len(prefer) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Guidance from %d past evaluations of this brand:\n", sampleSize)
	if len(avoid) > 0 {
		b.WriteString("AVOID: ")
		b.WriteString(strings.Join(avoid, "; "))
		b.WriteString("\n")
	}
	if len(prefer) > 0 {
		b.WriteString("PREFER: ")
		b.WriteString(strings.Join(prefer, "; "))
		b.WriteString("\n")
	}
	return b.String()
}
