package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/magnate/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage magnate configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  magnate config init -o magnate.yaml
  magnate config validate -f magnate.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings. The format
follows the extension: .yaml/.yml for YAML, anything else for JSON.

Example:
  magnate config init -o magnate.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  magnate config validate -f magnate.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", defaultConfigFile, "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and play with:")
	fmt.Printf("  magnate play -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Account: $%.2f (lot %d oz, margin %.0f%%)\n", cfg.Account.Balance, cfg.Account.LotSize, cfg.Account.MarginRate*100)
	fmt.Printf("  Game: %s, %s over %s\n", cfg.Game.Player, cfg.Game.Mode, cfg.Game.TotalDuration)
	fmt.Printf("  Prices: %s %s (%s .. %s)\n", cfg.Prices.Source, cfg.Prices.Symbol, cfg.Prices.From, cfg.Prices.To)
	fmt.Printf("  Leaderboard: %s %s\n", cfg.Leaderboard.Type, cfg.Leaderboard.Path)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
