package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "configs/rubrics", cfg.RubricDir)
	assert.Equal(t, "data/eval_log.jsonl", cfg.EvalLogPath)
	assert.Equal(t, "data/learnings", cfg.LearningsDir)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Oracle.BaseURL)
	assert.Equal(t, 3, cfg.Oracle.MaxRetries)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "muse.yaml")
	content := `
rubric_dir: /etc/muse/rubrics
eval_log_path: /var/lib/muse/eval_log.jsonl
oracle:
  model: gpt-4o
  timeout: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/muse/rubrics", cfg.RubricDir)
	assert.Equal(t, "/var/lib/muse/eval_log.jsonl", cfg.EvalLogPath)
	assert.Equal(t, "gpt-4o", cfg.Oracle.Model)
	assert.Equal(t, 30, cfg.Oracle.Timeout)
	// Untouched keys keep defaults.
	assert.Equal(t, "data/learnings", cfg.LearningsDir)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
