package journal

import (
	"context"
	"database/sql"
	"fmt"
)

// GetTrade returns a single trade record by ID.
func (j *SQLiteJournal) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT game_id, trade_id, side, quantity, entry_price, exit_price, open_date, close_date, realized_pl, reason
		FROM trades
		WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns a game's trades in close order.
func (j *SQLiteJournal) ListTrades(ctx context.Context, gameID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT game_id, trade_id, side, quantity, entry_price, exit_price, open_date, close_date, realized_pl, reason
		FROM trades
		WHERE game_id = ?
		ORDER BY close_date ASC, trade_id ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquity returns a game's snapshots in day order.
func (j *SQLiteJournal) ListEquity(ctx context.Context, gameID string) ([]EquitySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT game_id, day, date, price, balance, equity, margin_used, floating_pl, profit, news
		FROM equity
		WHERE game_id = ?
		ORDER BY day ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(
			&e.GameID,
			&e.Day,
			&e.Date,
			&e.Price,
			&e.Balance,
			&e.Equity,
			&e.MarginUsed,
			&e.FloatingPL,
			&e.Profit,
			&e.News,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.GameID,
		&rec.TradeID,
		&rec.Side,
		&rec.Quantity,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenDate,
		&rec.CloseDate,
		&rec.RealizedPL,
		&rec.Reason,
	)
	return rec, err
}
