// Package history is the append-only time-series store for observed
// price samples.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/goldwatch/market"
)

// Row is one persisted observation.
type Row struct {
	Code       string
	Sample     market.PriceSample
	ObservedAt time.Time
}

// Store is the contract the sync path and reporting consume.
type Store interface {
	Append(code string, sample market.PriceSample, observedAt time.Time) error
	Query(code string, since time.Time) ([]Row, error)
	Latest(code string) (Row, error)
	Close() error
}

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

// Append records one observation. Prices are stored as decimal strings
// so nothing is lost to float rounding on the round trip.
func (s *SQLite) Append(code string, sample market.PriceSample, observedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO price_history
		(instrument, observed_at, buy, sell, day_low, day_high, prev_close, source_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		code, observedAt.UTC(),
		sample.Buy.String(), sample.Sell.String(),
		sample.DayLow.String(), sample.DayHigh.String(),
		sample.PrevClose.String(), sample.SourceTime,
	)
	return err
}

// Query returns every observation for code at or after since, ascending
// by observation time.
func (s *SQLite) Query(code string, since time.Time) ([]Row, error) {
	if err := market.ValidateCode(code); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT instrument, observed_at, buy, sell, day_low, day_high, prev_close, source_time
		FROM price_history
		WHERE instrument = ? AND observed_at >= ?
		ORDER BY observed_at ASC`, code, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the most recent observation for code.
func (s *SQLite) Latest(code string) (Row, error) {
	if err := market.ValidateCode(code); err != nil {
		return Row{}, err
	}

	row := s.db.QueryRow(`
		SELECT instrument, observed_at, buy, sell, day_low, day_high, prev_close, source_time
		FROM price_history
		WHERE instrument = ?
		ORDER BY observed_at DESC LIMIT 1`, code)

	rec, err := scanRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Row{}, fmt.Errorf("no history for %q", code)
		}
		return Row{}, err
	}
	return rec, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRow(sc scanner) (Row, error) {
	var (
		rec Row
		buy, sell, low, high, prev string
	)

	err := sc.Scan(
		&rec.Code,
		&rec.ObservedAt,
		&buy,
		&sell,
		&low,
		&high,
		&prev,
		&rec.Sample.SourceTime,
	)
	if err != nil {
		return Row{}, err
	}

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&rec.Sample.Buy, buy},
		{&rec.Sample.Sell, sell},
		{&rec.Sample.DayLow, low},
		{&rec.Sample.DayHigh, high},
		{&rec.Sample.PrevClose, prev},
	} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return Row{}, fmt.Errorf("corrupt price value %q: %w", f.src, err)
		}
		*f.dst = d
	}

	return rec, nil
}
