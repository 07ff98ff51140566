package leaderboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrCorruptStore means a store exists but could not be read back.
var ErrCorruptStore = errors.New("leaderboard store is corrupt")

// Store is an append-only home for records. Loading a store that does not
// exist yet returns no records and no error.
type Store interface {
	Append(ctx context.Context, r Record) error
	Load(ctx context.Context) ([]Record, error)
	Close() error
}

// Open returns the store named by kind: "csv" (the default) or "sqlite".
func Open(kind, path string) (Store, error) {
	switch kind {
	case "", "csv":
		return NewCSVStore(path), nil
	case "sqlite":
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown leaderboard store %q", kind)
	}
}

// Board ranks records held in a Store.
type Board struct {
	store Store
}

func NewBoard(s Store) *Board {
	return &Board{store: s}
}

// Record appends a finished game.
func (b *Board) Record(ctx context.Context, r Record) error {
	return b.store.Append(ctx, r)
}

func (b *Board) Top(ctx context.Context, n int) ([]Record, error) {
	all, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return TopN(all, n), nil
}

func (b *Board) Rank(ctx context.Context, player string) (int, bool, error) {
	all, err := b.store.Load(ctx)
	if err != nil {
		return 0, false, err
	}
	rank, ok := Rank(player, all)
	return rank, ok, nil
}

// History returns every record of one player, best first.
func (b *Board) History(ctx context.Context, player string) ([]Record, error) {
	all, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range all {
		if r.PlayerName == player {
			out = append(out, r)
		}
	}
	Sort(out)
	return out, nil
}

func (b *Board) Close() error { return b.store.Close() }
