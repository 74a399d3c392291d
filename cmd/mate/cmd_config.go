package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"matebuilder/internal/config"
)

var configForce bool

// configCmd manages the YAML config file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or print the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to --config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := config.DefaultConfig().Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.LLM.APIKey != "" {
			shown.LLM.APIKey = "********"
		}
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
