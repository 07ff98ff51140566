package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/magnate/game"
	"github.com/rustyeddy/magnate/tui"
)

// playLogFile keeps logs off the game screen when no log file is configured.
const playLogFile = "magnate.log"

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive game",
	Long: `Open the game screen and start trading.

Keys:
  b / s     buy / sell short the typed number of lots
  c         close the open position
  p         pause or resume
  f         toggle double speed
  e         end the game now
  q         end the game and quit

Examples:
  magnate play -p ada
  magnate play -m synthetic --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	addGameFlags(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = playLogFile
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Println("Loading prices...")
	sess, err := game.NewSession(context.Background(), cfg, game.Options{Logger: log})
	if err != nil {
		return err
	}
	defer sess.Close()

	m := tui.New(sess, log)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("game screen: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}

	if sum, ok := m.Summary(); ok {
		game.NewConsole(os.Stdout).Summary(sum)
	}
	return nil
}
