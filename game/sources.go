package game

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/magnate/config"
	"github.com/rustyeddy/magnate/market"
	"github.com/rustyeddy/magnate/market/yahoo"
	"github.com/rustyeddy/magnate/news"
)

// Independent random streams derived from one game seed.
const (
	streamPrices uint64 = iota + 1
	streamNews
)

func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Remote fetches cfg.Symbol from Yahoo Finance, skipping any cache.
func Remote(cfg config.PricesConfig, from, to time.Time, log *zap.Logger) yahoo.Source {
	opts := []yahoo.Option{yahoo.WithLogger(log)}
	if cfg.BaseURL != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.BaseURL))
	}
	return yahoo.Source{
		Client:  yahoo.NewClient(opts...),
		Request: yahoo.ChartRequest{Symbol: cfg.Symbol, From: from, To: to},
	}
}

// PriceSource returns the configured source of daily closes. Yahoo data is
// served from the cache file when present and written back after a fetch.
func PriceSource(cfg config.PricesConfig, seed uint64, log *zap.Logger) (market.Source, error) {
	from, to, err := cfg.Window()
	if err != nil {
		return nil, err
	}

	switch cfg.Source {
	case config.SourceYahoo, "":
		remote := Remote(cfg, from, to, log)
		return &market.CachedSource{Path: cfg.CacheFile, Remote: remote, Logger: log}, nil

	case config.SourceGenerated:
		open := decimal.NewFromFloat(cfg.Open)
		days := cfg.Days
		return market.SourceFunc(func(context.Context) (*market.PriceSeries, error) {
			return market.Synthetic(from, days, open, newRand(seed, streamPrices))
		}), nil

	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.Source)
	}
}

// LoadSeries loads the configured closes and, in synthetic mode, random-walks
// them with the game seed.
func LoadSeries(ctx context.Context, cfg *config.Config, seed uint64, log *zap.Logger) (*market.PriceSeries, error) {
	src, err := PriceSource(cfg.Prices, seed, log)
	if err != nil {
		return nil, err
	}
	s, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if cfg.Game.Mode != config.ModeSynthetic {
		return s, nil
	}
	return market.Perturb(s, newRand(seed, streamPrices))
}

// NewsModel builds the headline model. A missing news file is ignored; an
// unreadable one is logged and the built-in headlines are kept.
func NewsModel(cfg config.NewsConfig, seed uint64, log *zap.Logger) (*news.Model, error) {
	script := news.Script{}
	if cfg.Builtin {
		script = news.BuiltinScript()
	}

	if cfg.File != "" {
		custom, err := news.LoadScriptFile(cfg.File)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Debug("no custom news file", zap.String("path", cfg.File))
		case err != nil:
			log.Warn("custom news not loaded", zap.String("path", cfg.File), zap.Error(err))
		default:
			log.Info("custom news loaded", zap.String("path", cfg.File), zap.Int("days", len(custom)))
			script = script.Merge(custom)
		}
	}

	return news.NewModel(news.Options{
		Script:      script,
		Pool:        news.DefaultPool(),
		Probability: cfg.Probability,
		Rand:        newRand(seed, streamNews),
	})
}
