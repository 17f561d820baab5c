// Package config loads engine settings from muse.yaml plus MUSE_* environment
// overrides. Brand rubrics are separate per-brand YAML files loaded by the
// quality package; this package only locates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// OracleConfig holds the connection settings for the LLM scoring oracle.
type OracleConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"`
	MaxRetries  int     `mapstructure:"max_retries"`
	Temperature float64 `mapstructure:"temperature"`
}

// Config is the process-level configuration for the quality engine.
type Config struct {
	RubricDir    string       `mapstructure:"rubric_dir"`
	EvalLogPath  string       `mapstructure:"eval_log_path"`
	LearningsDir string       `mapstructure:"learnings_dir"`
	LogLevel     string       `mapstructure:"log_level"`
	Oracle       OracleConfig `mapstructure:"oracle"`
}

// Load reads configuration from the given file (optional) layered over
// defaults and MUSE_* environment variables. An empty path looks for
// muse.yaml in the working directory and ~/.muse/.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("muse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".muse"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
			// No config file is fine; defaults plus env apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("rubric_dir", "configs/rubrics")
	v.SetDefault("eval_log_path", "data/eval_log.jsonl")
	v.SetDefault("learnings_dir", "data/learnings")
	v.SetDefault("log_level", "info")
	v.SetDefault("oracle.base_url", "https://api.openai.com/v1")
	v.SetDefault("oracle.model", "gpt-4o-mini")
	v.SetDefault("oracle.timeout", 120)
	v.SetDefault("oracle.max_retries", 3)
	v.SetDefault("oracle.temperature", 0.2)
}
