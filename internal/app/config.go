package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/corey/emojipick/internal/ports"
	"gopkg.in/yaml.v3"
)

// Config is the resolved configuration. Precedence, lowest first:
// defaults, config.yaml, environment, command-line flags.
type Config struct {
	Backend    string `yaml:"backend"`
	Lucky      bool   `yaml:"lucky"`
	Corpus     string `yaml:"corpus"`
	IndexDir   string `yaml:"index_dir"`
	MaxResults int    `yaml:"max_results"`

	FullText FullTextConfig `yaml:"fulltext"`
	Fuzzy    FuzzyConfig    `yaml:"fuzzy"`
	Log      LogConfig      `yaml:"log"`
	Web      WebConfig      `yaml:"web"`
}

// FullTextConfig tunes query construction of the full-text backend.
type FullTextConfig struct {
	Field          string  `yaml:"field"`
	FuzzyDistance  int     `yaml:"fuzzy_distance"`
	SubstringBoost float32 `yaml:"substring_boost"`
}

// FuzzyConfig tunes the incremental matcher's worker.
type FuzzyConfig struct {
	Workers int           `yaml:"workers"`
	Tick    time.Duration `yaml:"tick"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig reads path (a missing file means defaults) and applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Backend:    "fuzzy",
		Corpus:     "emoji-slim.json",
		MaxResults: ports.MaxResults,
		FullText: FullTextConfig{
			Field:          "name",
			FuzzyDistance:  2,
			SubstringBoost: 3,
		},
		Fuzzy: FuzzyConfig{
			Tick: 10 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Web: WebConfig{
			Addr: "127.0.0.1:7878",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SEARCH_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("IM_FEELING_LUCKY"); strings.TrimSpace(v) != "" {
		cfg.Lucky = true
	}
	if v := os.Getenv("EMOJIPICK_CORPUS"); v != "" {
		cfg.Corpus = v
	}
	if v := os.Getenv("EMOJIPICK_INDEX_DIR"); v != "" {
		cfg.IndexDir = v
	}
	if v := os.Getenv("EMOJIPICK_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxResults = n
		}
	}
	if v := os.Getenv("EMOJIPICK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("EMOJIPICK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("EMOJIPICK_WEB_ADDR"); v != "" {
		cfg.Web.Addr = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := ParseKind(c.Backend); err != nil {
		return err
	}
	if c.Corpus == "" {
		return fmt.Errorf("corpus path is empty")
	}
	if c.MaxResults < 1 || c.MaxResults > ports.MaxResults {
		return fmt.Errorf("max_results must be in [1, %d], got %d", ports.MaxResults, c.MaxResults)
	}
	switch c.FullText.Field {
	case "name", "keywords":
	default:
		return fmt.Errorf("fulltext.field must be name or keywords, got %q", c.FullText.Field)
	}
	if c.FullText.FuzzyDistance < 1 || c.FullText.FuzzyDistance > 2 {
		return fmt.Errorf("fulltext.fuzzy_distance must be 1 or 2, got %d", c.FullText.FuzzyDistance)
	}
	if c.FullText.SubstringBoost <= 0 {
		return fmt.Errorf("fulltext.substring_boost must be positive")
	}
	if c.Fuzzy.Workers < 0 {
		return fmt.Errorf("fuzzy.workers must not be negative")
	}
	if c.Fuzzy.Tick <= 0 {
		return fmt.Errorf("fuzzy.tick must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// YAML renders the config as it would be written to config.yaml.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
