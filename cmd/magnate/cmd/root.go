package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/config"
	"github.com/rustyeddy/magnate/pkg/logging"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "magnate.yaml"

var rootCmd = &cobra.Command{
	Use:   "magnate",
	Short: "Trade the 2008 gold market against the clock",
	Long: `Magnate replays a year of daily gold futures closes, one trading day
every few hundred milliseconds. Go long or short with margin, react to the
headlines and see where you land on the leaderboard.

  magnate play                 interactive game
  magnate run                  headless game, commands on stdin
  magnate replay -s plan.csv   scripted game, no delay
  magnate leaderboard top      best players`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
	logFile  string

	gamePlayer string
	gameMode   string
	gameSeed   uint64
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./magnate.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// addGameFlags registers the flags shared by the commands that play a game.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&gamePlayer, "player", "p", "", "player name")
	cmd.Flags().StringVarP(&gameMode, "mode", "m", "", "historical or synthetic")
	cmd.Flags().Uint64Var(&gameSeed, "seed", 0, "random seed (0 picks one)")
}

// loadConfig reads the config file, or the defaults, and applies flags.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if gamePlayer != "" {
		cfg.Game.Player = gamePlayer
	}
	if gameMode != "" {
		cfg.Game.Mode = gameMode
	}
	if gameSeed != 0 {
		cfg.Game.Seed = gameSeed
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return log, nil
}
