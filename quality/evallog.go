package quality

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsonx "muse/internal/shared/json"
)

// previewLength caps how much content an EvalLogEntry carries.
const previewLength = 120

// EvalLogEntry is the immutable projection of an EvalResult kept in the log.
// Entries are appended once and never mutated or deleted.
type EvalLogEntry struct {
	TS             time.Time      `json:"ts"`
	Type           string         `json:"type,omitempty"`
	Brand          string         `json:"brand"`
	ContentPreview string         `json:"content_preview"`
	Score          int            `json:"score"`
	Passed         bool           `json:"passed"`
	Dimensions     map[string]int `json:"dimensions"`
	HardFails      []string       `json:"hard_fails,omitempty"`
	RedFlags       []string       `json:"red_flags,omitempty"`
}

// EvalLog is a single append-only JSONL file shared across all brands and
// both content types. Appends are serialized within the process; there is no
// cross-process locking, so concurrent writer processes may interleave.
type EvalLog struct {
	path string
	mu   sync.Mutex
}

// NewEvalLog creates a log backed by the file at path. The file is created
// on first append.
func NewEvalLog(path string) *EvalLog {
	return &EvalLog{path: path}
}

// Path returns the backing file path.
func (l *EvalLog) Path() string {
	return l.path
}

// Record implements Recorder: it projects a final EvalResult into a log
// entry and appends it.
func (l *EvalLog) Record(brand, contentType, content string, result *EvalResult) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}
	patterns := make([]string, 0, len(result.RedFlags))
	for _, hit := range result.RedFlags {
		patterns = append(patterns, hit.Pattern)
	}
	return l.Append(EvalLogEntry{
		TS:             time.Now().UTC(),
		Type:           contentType,
		Brand:          brand,
		ContentPreview: preview(content),
		Score:          result.Score,
		Passed:         result.Passed,
		Dimensions:     result.Dimensions,
		HardFails:      result.HardFails,
		RedFlags:       patterns,
	})
}

// Append writes one entry as a JSON line.
func (l *EvalLog) Append(entry EvalLogEntry) error {
	data, err := jsonx.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode log entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open eval log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append eval log: %w", err)
	}
	return nil
}

// ErrStopScan halts a Scan early without error.
var ErrStopScan = errors.New("stop scan")

// Scan streams every decodable entry to fn in append order. There is no
// index; aggregation always performs a full scan. Lines that fail to decode
// are skipped so a torn write cannot poison the whole log.
func (l *EvalLog) Scan(fn func(EvalLogEntry) error) error {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open eval log: %w", err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry EvalLogEntry
		if err := jsonx.Unmarshal(line, &entry); err != nil {
			continue
		}
		if err := fn(entry); err != nil {
			if errors.Is(err, ErrStopScan) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan eval log: %w", err)
	}
	return nil
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength])
}
