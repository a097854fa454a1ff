package journal

// Times are stored as fixed-width UTC text so they compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	broker_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	status TEXT NOT NULL,
	quantity REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL,
	entry_time TEXT NOT NULL,
	exit_time TEXT,
	commission REAL NOT NULL DEFAULT 0,
	swap REAL NOT NULL DEFAULT 0,
	pnl REAL,
	pnl_percent REAL,
	stop_loss REAL,
	take_profit REAL,
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_trades_broker ON trades(broker_id, entry_time);
CREATE INDEX IF NOT EXISTS idx_trades_exit ON trades(exit_time);

CREATE TABLE IF NOT EXISTS balances (
	broker_id TEXT NOT NULL,
	time TEXT NOT NULL,
	total TEXT NOT NULL DEFAULT '{}',
	free TEXT NOT NULL DEFAULT '{}',
	used TEXT NOT NULL DEFAULT '{}',
	equity REAL,
	margin REAL,
	PRIMARY KEY (broker_id, time)
);
`
