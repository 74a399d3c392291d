// Package config loads the mate configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderGemini  = "gemini"
	ProviderOffline = "offline"
)

// DefaultModel is the generator model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultExportFile is the name the exported snapshot is written under.
const DefaultExportFile = "my-love-data.json"

// Config holds all mate configuration.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Game    GameConfig    `yaml:"game"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generator collaborator.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // gemini, offline
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Timeout     string  `yaml:"timeout"`
	Temperature float32 `yaml:"temperature"`
	// QuestionCount is how many quiz questions to ask the generator for.
	QuestionCount int `yaml:"question_count"`
}

// ExportConfig configures snapshot export.
type ExportConfig struct {
	Dir      string `yaml:"dir"`
	FileName string `yaml:"file_name"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`
	// Disabled lists categories to silence.
	Disabled []string `yaml:"disabled"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:      ProviderGemini,
			Model:         DefaultModel,
			Timeout:       "120s",
			Temperature:   0.9,
			QuestionCount: 5,
		},
		Game: DefaultGameConfig(),
		Export: ExportConfig{
			Dir:      ".",
			FileName: DefaultExportFile,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// apiKeyEnv lists the key variables in increasing precedence.
var apiKeyEnv = []string{"API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	for _, name := range apiKeyEnv {
		if key := os.Getenv(name); key != "" {
			c.LLM.APIKey = key
		}
	}
	if model := os.Getenv("MATE_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if dir := os.Getenv("MATE_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
	if level := os.Getenv("MATE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// Offline reports whether the canned offline generator should be used.
func (c *Config) Offline() bool {
	return c.LLM.Provider == ProviderOffline || c.LLM.APIKey == ""
}

// ExportPath returns the full path of the export file.
func (c *Config) ExportPath() string {
	name := c.Export.FileName
	if name == "" {
		name = DefaultExportFile
	}
	return filepath.Join(c.Export.Dir, name)
}

// ValidProviders lists all supported generator providers.
var ValidProviders = []string{ProviderGemini, ProviderOffline}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.LLM.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
			return fmt.Errorf("invalid llm.timeout %q: %w", c.LLM.Timeout, err)
		}
	}
	if c.LLM.QuestionCount < 1 {
		return fmt.Errorf("llm.question_count must be at least 1")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging.format %q (valid: json, console)", c.Logging.Format)
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	return nil
}
