package database

const postgresSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	symbol VARCHAR(32) NOT NULL,
	direction VARCHAR(5) NOT NULL,
	entry_price NUMERIC NOT NULL,
	exit_price NUMERIC,
	quantity NUMERIC NOT NULL,
	entry_date TIMESTAMPTZ NOT NULL,
	exit_date TIMESTAMPTZ,
	status VARCHAR(6) NOT NULL,
	strategy TEXT,
	tags TEXT,
	execution_rate INTEGER NOT NULL,
	notes TEXT,
	pnl NUMERIC NOT NULL DEFAULT 0,
	screenshot TEXT,
	stop_loss NUMERIC,
	take_profit NUMERIC,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_trades_entry_date ON trades(entry_date);
`

// Decimals are kept as TEXT so SQLite never turns them into floats.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT,
	quantity TEXT NOT NULL,
	entry_date DATETIME NOT NULL,
	exit_date DATETIME,
	status TEXT NOT NULL,
	strategy TEXT,
	tags TEXT,
	execution_rate INTEGER NOT NULL,
	notes TEXT,
	pnl TEXT NOT NULL DEFAULT '0',
	screenshot TEXT,
	stop_loss TEXT,
	take_profit TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_entry_date ON trades(entry_date);
`
