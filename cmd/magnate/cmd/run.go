package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/game"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play a headless game in the terminal",
	Long: `Play in real time without the game screen. Each trading day is printed
as it happens; type commands followed by enter:

  b [lots]   buy          s [lots]   sell short
  c          close        p / r      pause / resume
  f          x2 speed     q          end the game

Ctrl-C also ends the game and records the result.

Example:
  magnate run -p ada -c magnate.yaml`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var runQuiet bool

func init() {
	rootCmd.AddCommand(runCmd)
	addGameFlags(runCmd)
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "ignore stdin and let the game play out")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := game.NewSession(ctx, cfg, game.Options{Logger: log})
	if err != nil {
		return err
	}
	defer sess.Close()

	console := game.NewConsole(os.Stdout)
	var actions chan game.Action
	if !runQuiet {
		actions = make(chan game.Action)
		go readActions(ctx, console, actions, log)
	}

	sum, err := sess.Run(ctx, console, actions)
	if err != nil {
		return err
	}
	if sum.SaveErr != nil {
		return fmt.Errorf("save result: %w", sum.SaveErr)
	}
	return nil
}

// readActions feeds stdin commands to the game until stdin closes or ctx is
// done.
func readActions(ctx context.Context, console *game.Console, out chan<- game.Action, log *zap.Logger) {
	defer close(out)
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		a, err := game.ParseAction(sc.Text())
		if err != nil {
			console.Notice(err.Error())
			continue
		}
		select {
		case out <- a:
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		log.Warn("stdin closed", zap.Error(err))
	}
}
