package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/magnate/game"
	"github.com/rustyeddy/magnate/market"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Manage the gold price history",
	Long: `Download or inspect the daily closes a historical game plays.

Subcommands:
  fetch  - Download closes from Yahoo Finance into the cache file
  show   - Summarize the series the configured source yields

Examples:
  magnate prices fetch
  magnate prices fetch -o gold.csv
  magnate prices show`,
}

var pricesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download closes and write the cache file",
	Args:  cobra.NoArgs,
	RunE:  runPricesFetch,
}

var pricesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the configured price series",
	Args:  cobra.NoArgs,
	RunE:  runPricesShow,
}

var pricesOut string

func init() {
	rootCmd.AddCommand(pricesCmd)
	pricesCmd.AddCommand(pricesFetchCmd)
	pricesCmd.AddCommand(pricesShowCmd)

	pricesFetchCmd.Flags().StringVarP(&pricesOut, "output", "o", "", "output CSV (default prices.cache_file)")
}

func runPricesFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	from, to, err := cfg.Prices.Window()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	series, err := game.Remote(cfg.Prices, from, to, log).Load(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", cfg.Prices.Symbol, err)
	}

	out := pricesOut
	if out == "" {
		out = cfg.Prices.CacheFile
	}
	if err := market.WriteCSV(out, series); err != nil {
		return fmt.Errorf("write prices: %w", err)
	}

	fmt.Printf("✓ Saved %d closes of %s to %s\n", series.Len(), cfg.Prices.Symbol, out)
	printSeries(series)
	return nil
}

func runPricesShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	series, err := game.LoadSeries(context.Background(), cfg, cfg.Game.Seed, log)
	if err != nil {
		return err
	}
	fmt.Printf("Source: %s (%s mode)\n", cfg.Prices.Source, cfg.Game.Mode)
	printSeries(series)
	return nil
}

func printSeries(s *market.PriceSeries) {
	first, last := s.First(), s.Last()
	lo, hi := first.Close, first.Close
	for _, p := range s.Points() {
		lo = decimal.Min(lo, p.Close)
		hi = decimal.Max(hi, p.Close)
	}
	fmt.Printf("  Days:  %d (%s .. %s)\n", s.Len(), first.Day(), last.Day())
	fmt.Printf("  Open:  %s  Close: %s\n", first.Close.StringFixed(2), last.Close.StringFixed(2))
	fmt.Printf("  Low:   %s  High:  %s\n", lo.StringFixed(2), hi.StringFixed(2))
}
