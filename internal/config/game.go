package config

import (
	"fmt"

	"matebuilder/internal/allocation"
	"matebuilder/internal/catalog"
)

// GameConfig configures the economy.
type GameConfig struct {
	InitialCoins int `yaml:"initial_coins"`
	// MinSelections is the number of placed tokens required to start the quiz.
	MinSelections int `yaml:"min_selections"`
	// CatalogPath optionally replaces the built-in token catalog.
	CatalogPath string `yaml:"catalog_path"`
	// Buckets overrides individual bucket rules, keyed by bucket name.
	Buckets map[string]BucketRule `yaml:"buckets"`
}

// BucketRule is the YAML form of allocation.BucketConfig. Empty fields keep
// the built-in value.
type BucketRule struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Accepts     string `yaml:"accepts,omitempty"`
	Multiplier  string `yaml:"multiplier,omitempty"` // "2", "-1", "3/2"
	Limit       *int   `yaml:"limit,omitempty"`
}

// DefaultGameConfig returns the stock economy settings.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		InitialCoins:  allocation.DefaultInitialCoins,
		MinSelections: 3,
	}
}

// Rules builds and validates the allocation rules described by the config.
func (c *Config) Rules() (allocation.Rules, error) {
	rules := allocation.DefaultRules()
	rules.InitialCoins = c.Game.InitialCoins

	for name, override := range c.Game.Buckets {
		b, err := allocation.ParseBucket(name)
		if err != nil {
			return allocation.Rules{}, fmt.Errorf("game.buckets: %w", err)
		}
		if b == allocation.Pool {
			return allocation.Rules{}, fmt.Errorf("game.buckets: %s cannot be configured", b)
		}
		cfg := rules.Buckets[b]
		if override.Title != "" {
			cfg.Title = override.Title
		}
		if override.Description != "" {
			cfg.Description = override.Description
		}
		if override.Accepts != "" {
			cfg.Accepts = catalog.Polarity(override.Accepts)
		}
		if override.Multiplier != "" {
			m, err := allocation.ParseRational(override.Multiplier)
			if err != nil {
				return allocation.Rules{}, fmt.Errorf("game.buckets.%s: %w", name, err)
			}
			cfg.Multiplier = m
		}
		if override.Limit != nil {
			cfg.Limit = *override.Limit
		}
		rules.Buckets[b] = cfg
	}

	if err := rules.Validate(); err != nil {
		return allocation.Rules{}, fmt.Errorf("game: %w", err)
	}
	if c.Game.MinSelections < 0 {
		return allocation.Rules{}, fmt.Errorf("game.min_selections must not be negative")
	}
	return rules, nil
}

// Catalog loads the configured token catalog, or the built-in one.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	return catalog.LoadFile(c.Game.CatalogPath)
}
