// history/schema.go
package history

const Schema = `
CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	instrument TEXT NOT NULL,
	observed_at DATETIME NOT NULL,
	buy TEXT NOT NULL,
	sell TEXT NOT NULL,
	day_low TEXT NOT NULL,
	day_high TEXT NOT NULL,
	prev_close TEXT NOT NULL,
	source_time TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_price_history_instrument ON price_history(instrument);
CREATE INDEX IF NOT EXISTS idx_price_history_observed_at ON price_history(observed_at);
`
