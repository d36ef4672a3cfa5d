// subs/schema.go
package subs

const Schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	subscriber_id INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(subscriber_id, instrument)
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_subscriber ON subscriptions(subscriber_id);
CREATE INDEX IF NOT EXISTS idx_subscriptions_instrument ON subscriptions(instrument);

CREATE TABLE IF NOT EXISTS portfolios (
	id TEXT PRIMARY KEY,
	subscriber_id INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	amount TEXT NOT NULL,
	buy_price TEXT NOT NULL,
	purchase_date TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_portfolios_subscriber ON portfolios(subscriber_id);
`
