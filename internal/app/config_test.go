package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: fulltext
corpus: /data/emoji.json
max_results: 20
fulltext:
  field: keywords
  fuzzy_distance: 1
fuzzy:
  tick: 25ms
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "fulltext", cfg.Backend)
	assert.Equal(t, "/data/emoji.json", cfg.Corpus)
	assert.Equal(t, 20, cfg.MaxResults)
	assert.Equal(t, "keywords", cfg.FullText.Field)
	assert.Equal(t, 1, cfg.FullText.FuzzyDistance)
	assert.Equal(t, float32(3), cfg.FullText.SubstringBoost, "unset keys keep defaults")
	assert.Equal(t, 25*time.Millisecond, cfg.Fuzzy.Tick)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [fuzzy"), 0644))
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SEARCH_BACKEND", "tantivy")
	t.Setenv("IM_FEELING_LUCKY", "1")
	t.Setenv("EMOJIPICK_CORPUS", "/tmp/e.json")
	t.Setenv("EMOJIPICK_INDEX_DIR", "/tmp/idx")
	t.Setenv("EMOJIPICK_MAX_RESULTS", "7")
	t.Setenv("EMOJIPICK_LOG_LEVEL", "debug")
	t.Setenv("EMOJIPICK_LOG_FORMAT", "json")
	t.Setenv("EMOJIPICK_WEB_ADDR", "127.0.0.1:9000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "tantivy", cfg.Backend)
	assert.True(t, cfg.Lucky)
	assert.Equal(t, "/tmp/e.json", cfg.Corpus)
	assert.Equal(t, "/tmp/idx", cfg.IndexDir)
	assert.Equal(t, 7, cfg.MaxResults)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9000", cfg.Web.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_BlankLuckyIsOff(t *testing.T) {
	t.Setenv("IM_FEELING_LUCKY", "  ")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.False(t, cfg.Lucky)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Backend = "sqlite" }, "unknown backend"},
		{"corpus", func(c *Config) { c.Corpus = "" }, "corpus"},
		{"max zero", func(c *Config) { c.MaxResults = 0 }, "max_results"},
		{"max over cap", func(c *Config) { c.MaxResults = 51 }, "max_results"},
		{"field", func(c *Config) { c.FullText.Field = "category" }, "fulltext.field"},
		{"distance", func(c *Config) { c.FullText.FuzzyDistance = 3 }, "fuzzy_distance"},
		{"boost", func(c *Config) { c.FullText.SubstringBoost = 0 }, "substring_boost"},
		{"workers", func(c *Config) { c.Fuzzy.Workers = -1 }, "workers"},
		{"tick", func(c *Config) { c.Fuzzy.Tick = 0 }, "tick"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend = "fulltext"
	data, err := cfg.YAML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
