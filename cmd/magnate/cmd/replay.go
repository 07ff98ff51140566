package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/magnate/game"
	"github.com/rustyeddy/magnate/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a scripted game without delay",
	Long: `Play a whole game from a CSV script of actions, as fast as possible.

Script format (header optional):
  date,action,quantity
  2008-09-15,BUY,2
  2008-09-29,CLOSE,
  2008-10-24,SELL,1

Actions are BUY, SELL, CLOSE and END. Each runs right after the trading day
it names. The result is recorded on the leaderboard like any other game.

Examples:
  magnate replay -s plan.csv -p ada --seed 7
  magnate replay -s plan.csv --report game.org`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

var (
	replayScript string
	replayStrict bool
	replayQuiet  bool
	replayReport string
)

func init() {
	rootCmd.AddCommand(replayCmd)
	addGameFlags(replayCmd)

	replayCmd.Flags().StringVarP(&replayScript, "script", "s", "", "CSV script of actions (required)")
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "stop at the first rejected action")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "only print the summary")
	replayCmd.Flags().StringVar(&replayReport, "report", "", "write an Org-mode game report to this file")
	replayCmd.MarkFlagRequired("script")
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	steps, err := replay.Load(replayScript)
	if err != nil {
		return fmt.Errorf("load script: %w", err)
	}

	sess, err := game.NewSession(ctx, cfg, game.Options{Logger: log})
	if err != nil {
		return err
	}
	defer sess.Close()

	console := game.NewConsole(os.Stdout)
	opts := replay.Options{Strict: replayStrict, Logger: log}
	if !replayQuiet {
		opts.Renderer = console
	}

	sum, err := sess.Finish(ctx, replay.Run(ctx, sess.Clock(), steps, opts))
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	console.Summary(sum)

	if replayReport != "" {
		if err := writeReport(replayReport, sum); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", replayReport)
	}
	return nil
}

func writeReport(path string, sum game.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := sum.Report.WriteOrg(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

