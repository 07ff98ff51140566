package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/magnate/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the game journal",
	Long: `Query trades and daily equity recorded by games played with the
SQLite journal (journal.type: sqlite).

Subcommands:
  trade  - Get details of a specific trade by ID
  trades - List the trades of a game
  equity - List the daily equity of a game

Examples:
  magnate journal trade 01JB2Z6W0Q5Y4N7TQ3H8M1C9XD
  magnate journal trades 01JB2Z5S1F2Q9P8R7K6J5H4G3E
  magnate journal equity 01JB2Z5S1F2Q9P8R7K6J5H4G3E --db games.sqlite`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <game-id>",
	Short: "List the trades of a game",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity <game-id>",
	Short: "List the daily equity of a game",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEquity,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalEquityCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "", "path to SQLite journal DB (default journal.db_path)")
}

func openJournal() (*journal.SQLiteJournal, error) {
	path := journalDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database: pass --db or set journal.db_path")
	}

	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Println(journal.FormatTradeOrg(rec))
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if len(recs) == 0 {
		fmt.Printf("No trades for game %s\n", args[0])
		return nil
	}

	for _, rec := range recs {
		fmt.Println(journal.FormatTradeOrg(rec))
	}
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	snaps, err := j.ListEquity(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("query equity: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Printf("No equity for game %s\n", args[0])
		return nil
	}

	fmt.Printf("%4s  %-10s %10s %12s %12s %10s %10s\n", "DAY", "DATE", "PRICE", "BALANCE", "EQUITY", "MARGIN", "PROFIT")
	for _, e := range snaps {
		fmt.Printf("%4d  %-10s %10s %12s %12s %10s %10s\n",
			e.Day,
			e.Date.Format("2006-01-02"),
			e.Price.StringFixed(2),
			e.Balance.StringFixed(2),
			e.Equity.StringFixed(2),
			e.MarginUsed.StringFixed(2),
			e.Profit.StringFixed(2),
		)
		if e.News != "" {
			fmt.Printf("      %s\n", e.News)
		}
	}
	return nil
}
