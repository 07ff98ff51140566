package market

import (
	"context"
	"errors"
	"io/fs"

	"go.uber.org/zap"
)

// Source produces a validated series for one game.
type Source interface {
	Load(ctx context.Context) (*PriceSeries, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*PriceSeries, error)

func (f SourceFunc) Load(ctx context.Context) (*PriceSeries, error) { return f(ctx) }

// CachedSource serves a series from a CSV cache file and falls back to
// Remote when the cache is missing or unreadable. A successful remote load is
// written back to the cache; failing to write it is only a warning.
type CachedSource struct {
	Path   string
	Remote Source
	Logger *zap.Logger
}

func (c *CachedSource) Load(ctx context.Context) (*PriceSeries, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if c.Path != "" {
		s, err := LoadCSV(c.Path)
		if err == nil {
			log.Debug("price cache hit", zap.String("path", c.Path), zap.Int("days", s.Len()))
			return s, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn("price cache unreadable, refetching", zap.String("path", c.Path), zap.Error(err))
		}
	}

	if c.Remote == nil {
		return nil, &ValidationError{Index: -1, Reason: "no cached prices and no remote source"}
	}

	s, err := c.Remote.Load(ctx)
	if err != nil {
		return nil, err
	}

	if c.Path != "" {
		if err := WriteCSV(c.Path, s); err != nil {
			log.Warn("could not write price cache", zap.String("path", c.Path), zap.Error(err))
		}
	}
	return s, nil
}
