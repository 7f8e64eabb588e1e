package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"emotescraper/pkg/config"
	"emotescraper/pkg/ui"
)

const defaultConfigPath = ".emotescraper.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage emotescraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (EMOTESCRAPER_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with default values",
	Long: `Create a configuration file holding every option at its default value.

The file is created as '.emotescraper.yaml' in the current directory
unless a different path is specified with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and check its values.

Every problem found is reported, not just the first.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file already exists: %s", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}

	ui.NewConsole(cmd.OutOrStdout(), false).PrintSuccess("Configuration file created: " + path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, config.Flags{})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, config.Flags{})
	if err != nil {
		return err
	}

	console := ui.NewConsole(cmd.OutOrStdout(), false)
	console.PrintSuccess("Configuration is valid")
	console.PrintInfo("Output root", displayOrDefault(cfg.Output.BaseDirectory, "desktop"))
	console.PrintInfo("Concurrent downloads", fmt.Sprint(cfg.Download.ConcurrentDownloads))
	console.PrintInfo("Request timeout", cfg.Download.RequestTimeout.String())
	console.PrintInfo("Rate limit", displayOrDefault(rateLimitText(cfg.RateLimit.RequestsPerMinute), "off"))
	console.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}

func displayOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func rateLimitText(rpm int) string {
	if rpm <= 0 {
		return ""
	}
	return fmt.Sprintf("%d requests/minute", rpm)
}
