package journal

// Money columns are TEXT so decimals survive without float rounding.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	game_id TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	open_date DATE NOT NULL,
	close_date DATE NOT NULL,
	realized_pl TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	game_id TEXT NOT NULL,
	day INTEGER NOT NULL,
	date DATE NOT NULL,
	price TEXT NOT NULL,
	balance TEXT NOT NULL,
	equity TEXT NOT NULL,
	margin_used TEXT NOT NULL,
	floating_pl TEXT NOT NULL,
	profit TEXT NOT NULL,
	news TEXT NOT NULL,
	PRIMARY KEY (game_id, day)
);

CREATE INDEX IF NOT EXISTS idx_trades_game ON trades(game_id, close_date);
`
