package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, game_id, side, quantity, entry_price, exit_price, open_date, close_date, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.GameID, t.Side, t.Quantity, t.EntryPrice.String(), t.ExitPrice.String(),
		t.OpenDate, t.CloseDate, t.RealizedPL.String(), t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(game_id, day, date, price, balance, equity, margin_used, floating_pl, profit, news)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.GameID, e.Day, e.Date, e.Price.String(), e.Balance.String(), e.Equity.String(),
		e.MarginUsed.String(), e.FloatingPL.String(), e.Profit.String(), e.News,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
