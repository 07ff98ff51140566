package leaderboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PlayDateLayout is how play_date is written.
const PlayDateLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"player_name", "final_balance", "profit_loss", "return_rate", "play_date"}

// CSVStore keeps the leaderboard in a CSV file. Every append opens the
// file, writes one row, flushes and closes it again.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Write([]string{
		r.PlayerName,
		r.FinalBalance.StringFixed(2),
		r.ProfitLoss.StringFixed(2),
		r.ReturnRatePercent.StringFixed(2),
		r.Timestamp.UTC().Format(PlayDateLayout),
	}); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return f.Close()
}

func (s *CSVStore) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open leaderboard: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, corrupt(1, err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range csvHeader {
		if _, ok := col[name]; !ok {
			return nil, corrupt(1, fmt.Errorf("missing column %q", name))
		}
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, corrupt(line, err)
		}
		if len(row) < len(header) {
			return nil, corrupt(line, fmt.Errorf("want %d fields, got %d", len(header), len(row)))
		}

		rec := Record{PlayerName: row[col["player_name"]]}
		if rec.FinalBalance, err = decimal.NewFromString(strings.TrimSpace(row[col["final_balance"]])); err != nil {
			return nil, corrupt(line, err)
		}
		if rec.ProfitLoss, err = decimal.NewFromString(strings.TrimSpace(row[col["profit_loss"]])); err != nil {
			return nil, corrupt(line, err)
		}
		if rec.ReturnRatePercent, err = decimal.NewFromString(strings.TrimSpace(row[col["return_rate"]])); err != nil {
			return nil, corrupt(line, err)
		}
		if rec.Timestamp, err = parsePlayDate(row[col["play_date"]]); err != nil {
			return nil, corrupt(line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parsePlayDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{PlayDateLayout, time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad play_date %q", s)
}

func corrupt(line int, err error) error {
	return fmt.Errorf("%w: line %d: %v", ErrCorruptStore, line, err)
}

func (s *CSVStore) Close() error { return nil }
