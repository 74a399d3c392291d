package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range apiKeyEnv {
		t.Setenv(name, "")
	}
	t.Setenv("MATE_MODEL", "")
	t.Setenv("MATE_EXPORT_DIR", "")
	t.Setenv("MATE_LOG_LEVEL", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, 20, cfg.Game.InitialCoins)
	assert.Equal(t, 3, cfg.Game.MinSelections)
	assert.Equal(t, filepath.Join(".", "my-love-data.json"), cfg.ExportPath())
	assert.True(t, cfg.Offline(), "no key means offline")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearKeyEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_SaveRoundTrip(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "mate.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Timeout = "30s"
	cfg.Game.InitialCoins = 25
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, loaded.GetLLMTimeout())
	assert.Equal(t, 25, loaded.Game.InitialCoins)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRules_Overrides(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "mate.yaml")
	yml := `
game:
  initial_coins: 30
  buckets:
    deal_breaker:
      limit: 5
    flaw:
      multiplier: "-2"
      title: Tolerable
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	rules, err := cfg.Rules()
	require.NoError(t, err)

	assert.Equal(t, 30, rules.InitialCoins)
	db, _ := rules.Config(allocation.DealBreaker)
	assert.Equal(t, 5, db.Limit)
	flaw, _ := rules.Config(allocation.Flaw)
	assert.Equal(t, allocation.Whole(-2), flaw.Multiplier)
	assert.Equal(t, "Tolerable", flaw.Title)
	assert.Equal(t, catalog.PolarityNegative, flaw.Accepts)

	mh, _ := rules.Config(allocation.MustHave)
	assert.Equal(t, allocation.Whole(2), mh.Multiplier, "untouched buckets keep defaults")
}

func TestRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		buckets map[string]BucketRule
	}{
		{"unknown bucket", map[string]BucketRule{"attic": {}}},
		{"pool", map[string]BucketRule{"pool": {Multiplier: "1"}}},
		{"bad multiplier", map[string]BucketRule{"bonus": {Multiplier: "two"}}},
		{"fractional", map[string]BucketRule{"bonus": {Multiplier: "1/2"}}},
		{"bad polarity", map[string]BucketRule{"bonus": {Accepts: "neutral"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Game.Buckets = tt.buckets
			_, err := cfg.Rules()
			assert.Error(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Provider = "openai"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LLM.Timeout = "soon"
	assert.Error(t, cfg.Validate())
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestCatalog_DefaultAndFile(t *testing.T) {
	cfg := DefaultConfig()
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 112, cat.Len())

	cfg.Game.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Catalog()
	assert.Error(t, err)
}
