package leaderboard

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS leaderboard (
	id TEXT PRIMARY KEY,
	player_name TEXT NOT NULL,
	final_balance TEXT NOT NULL,
	profit_loss TEXT NOT NULL,
	return_rate TEXT NOT NULL,
	play_date DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leaderboard_player ON leaderboard(player_name);
`

// SQLiteStore keeps the leaderboard in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create leaderboard schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (id, player_name, final_balance, profit_loss, return_rate, play_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.PlayerName, r.FinalBalance.String(), r.ProfitLoss.String(), r.ReturnRatePercent.String(), r.Timestamp.UTC(),
	)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_name, final_balance, profit_loss, return_rate, play_date
		FROM leaderboard
		ORDER BY play_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.PlayerName, &r.FinalBalance, &r.ProfitLoss, &r.ReturnRatePercent, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
