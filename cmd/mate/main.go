// Package main is the mate command line: an interactive allocation session
// plus catalog, snapshot and match utilities.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"matebuilder/internal/config"
	"matebuilder/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	offline    bool
	apiKey     string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mate",
	Short: "mate - spend twenty coins on your ideal partner",
	Long: `mate is a trait allocation game.

You get a fixed budget of coins and a catalog of partner traits. Must-haves
cost double, bonuses cost their price, deal breakers are free but limited to
three, and accepting a flaw earns its price back. A short quiz then refines
your choices into a report you can export and compare with a partner.

Run without arguments to start an interactive session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		// The TUI owns the terminal; only log there when a file is configured.
		if isInteractive(cmd) && cfg.Logging.File == "" {
			logger = zap.NewNop()
			logging.InitializeWithLogger(logger)
			return nil
		}

		if err := logging.Initialize(loggingOptions(cfg)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Root()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
	RunE: runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use canned results instead of the Gemini API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("MATE_CONFIG"); p != "" {
		return p
	}
	return "mate.yaml"
}

// commandContext returns cmd's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isInteractive reports whether cmd runs the TUI: the bare root or play.
func isInteractive(cmd *cobra.Command) bool {
	return cmd.Parent() == nil || cmd.Name() == "play"
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		c.LLM.APIKey = apiKey
	}
	if offline {
		c.LLM.Provider = config.ProviderOffline
	}
	if verbose {
		c.Logging.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return c, nil
}

func loggingOptions(c *config.Config) logging.Options {
	var off []logging.Category
	for _, name := range c.Logging.Disabled {
		off = append(off, logging.Category(strings.ToLower(strings.TrimSpace(name))))
	}
	return logging.Options{
		Level:    c.Logging.Level,
		Format:   c.Logging.Format,
		File:     c.Logging.File,
		Disabled: off,
	}
}
