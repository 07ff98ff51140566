package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/magnate/config"
	"github.com/rustyeddy/magnate/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb"},
	Short:   "Show the leaderboard",
	Long: `Query the finished games recorded in the configured leaderboard store.

Subcommands:
  top [n]            - best result of each player (default 10)
  rank <player>      - a player's position
  history <player>   - every game of one player, best first

Examples:
  magnate leaderboard top 5
  magnate leaderboard rank ada`,
}

var leaderboardTopCmd = &cobra.Command{
	Use:   "top [n]",
	Short: "List the best players",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLeaderboardTop,
}

var leaderboardRankCmd = &cobra.Command{
	Use:   "rank <player>",
	Short: "Show a player's rank",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaderboardRank,
}

var leaderboardHistoryCmd = &cobra.Command{
	Use:   "history <player>",
	Short: "List every game of a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaderboardHistory,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.AddCommand(leaderboardTopCmd)
	leaderboardCmd.AddCommand(leaderboardRankCmd)
	leaderboardCmd.AddCommand(leaderboardHistoryCmd)
}

func openBoard() (*leaderboard.Board, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := leaderboard.Open(cfg.Leaderboard.Type, cfg.Leaderboard.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open leaderboard: %w", err)
	}
	return leaderboard.NewBoard(store), cfg, nil
}

func runLeaderboardTop(cmd *cobra.Command, args []string) error {
	n := 10
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("n must be a positive number, got %q", args[0])
		}
		n = v
	}

	board, cfg, err := openBoard()
	if err != nil {
		return err
	}
	defer board.Close()

	top, err := board.Top(context.Background(), n)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		fmt.Printf("No games recorded in %s yet\n", cfg.Leaderboard.Path)
		return nil
	}
	printRecords(top, true)
	return nil
}

func runLeaderboardRank(cmd *cobra.Command, args []string) error {
	board, _, err := openBoard()
	if err != nil {
		return err
	}
	defer board.Close()

	rank, ok, err := board.Rank(context.Background(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s has not finished a game yet\n", args[0])
		return nil
	}
	fmt.Printf("%s is ranked #%d\n", args[0], rank)
	return nil
}

func runLeaderboardHistory(cmd *cobra.Command, args []string) error {
	board, _, err := openBoard()
	if err != nil {
		return err
	}
	defer board.Close()

	hist, err := board.History(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(hist) == 0 {
		fmt.Printf("%s has not finished a game yet\n", args[0])
		return nil
	}
	printRecords(hist, false)
	return nil
}

func printRecords(records []leaderboard.Record, ranked bool) {
	fmt.Printf("%-5s %-16s %14s %14s %9s  %s\n", "#", "PLAYER", "BALANCE", "P&L", "RETURN", "PLAYED")
	for i, r := range records {
		pos := ""
		if ranked {
			pos = strconv.Itoa(i + 1)
		}
		fmt.Printf("%-5s %-16s %14s %14s %8s%%  %s\n",
			pos,
			r.PlayerName,
			r.FinalBalance.StringFixed(2),
			r.ProfitLoss.StringFixed(2),
			r.ReturnRatePercent.StringFixed(2),
			r.Timestamp.Local().Format(leaderboard.PlayDateLayout),
		)
	}
}
