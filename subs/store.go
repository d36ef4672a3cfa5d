// Package subs persists who follows which instrument, plus the
// portfolio records subscribers accumulate.
package subs

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/goldwatch/market"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// Subscribe adds one (subscriber, instrument) record. Subscribing twice
// is not an error; at most one record per pair ever exists.
func (s *SQLite) Subscribe(subscriberID int64, code string) error {
	if err := market.ValidateCode(code); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO subscriptions (subscriber_id, instrument)
		VALUES (?, ?)
		ON CONFLICT(subscriber_id, instrument) DO NOTHING`,
		subscriberID, code)
	return err
}

// Unsubscribe removes the record for one instrument; the bool reports
// whether anything was removed.
func (s *SQLite) Unsubscribe(subscriberID int64, code string) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM subscriptions
		WHERE subscriber_id = ? AND instrument = ?`,
		subscriberID, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// UnsubscribeAll drops every subscription a subscriber holds.
func (s *SQLite) UnsubscribeAll(subscriberID int64) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM subscriptions WHERE subscriber_id = ?`, subscriberID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Subscriptions lists the instrument codes a subscriber follows.
func (s *SQLite) Subscriptions(subscriberID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT instrument FROM subscriptions
		WHERE subscriber_id = ?
		ORDER BY instrument ASC`, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

// SubscribersOf lists everyone following an instrument.
func (s *SQLite) SubscribersOf(code string) ([]int64, error) {
	if err := market.ValidateCode(code); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT subscriber_id FROM subscriptions
		WHERE instrument = ?`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
