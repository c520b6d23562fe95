package journal

const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	txn_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	fill_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	commission REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	cash_before REAL NOT NULL,
	cash_after REAL NOT NULL,
	value_before REAL NOT NULL,
	value_after REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_session ON transactions(session_id, txn_id);

CREATE TABLE IF NOT EXISTS positions (
	session_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	avg_price REAL NOT NULL,
	last_price REAL,
	unrealized_pnl REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	PRIMARY KEY (session_id, symbol)
);

CREATE TABLE IF NOT EXISTS portfolio_state (
	session_id TEXT PRIMARY KEY,
	cash REAL NOT NULL,
	initial_capital REAL NOT NULL,
	total_realized_pnl REAL NOT NULL,
	total_unrealized_pnl REAL NOT NULL,
	total_commissions REAL NOT NULL,
	total_trades INTEGER NOT NULL,
	peak_value REAL NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolio_snapshots (
	snapshot_id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	taken_at DATETIME NOT NULL,
	state TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_session ON portfolio_snapshots(session_id, snapshot_id);
`
