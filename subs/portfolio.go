package subs

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/goldwatch/market"
	"github.com/rustyeddy/goldwatch/pkg/id"
)

// PortfolioItem is one holding a subscriber records for later
// valuation: how much of an instrument was bought, at what price, when.
type PortfolioItem struct {
	ID           string
	SubscriberID int64
	Code         string
	Amount       decimal.Decimal
	BuyPrice     decimal.Decimal
	Date         string
}

// AddPortfolioItem stores a holding and returns its ID. A missing ID is
// filled in with a fresh ULID.
func (s *SQLite) AddPortfolioItem(item PortfolioItem) (string, error) {
	if err := market.ValidateCode(item.Code); err != nil {
		return "", err
	}
	if item.Amount.Sign() <= 0 {
		return "", fmt.Errorf("portfolio amount must be positive, got %s", item.Amount)
	}
	if item.BuyPrice.Sign() <= 0 {
		return "", fmt.Errorf("portfolio buy price must be positive, got %s", item.BuyPrice)
	}
	if item.ID == "" {
		item.ID = id.New()
	}

	_, err := s.db.Exec(`
		INSERT INTO portfolios (id, subscriber_id, instrument, amount, buy_price, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.SubscriberID, item.Code,
		item.Amount.String(), item.BuyPrice.String(), item.Date)
	if err != nil {
		return "", err
	}
	return item.ID, nil
}

// Portfolio lists a subscriber's holdings, oldest first (ULIDs sort by
// creation time).
func (s *SQLite) Portfolio(subscriberID int64) ([]PortfolioItem, error) {
	rows, err := s.db.Query(`
		SELECT id, subscriber_id, instrument, amount, buy_price, purchase_date
		FROM portfolios
		WHERE subscriber_id = ?
		ORDER BY id ASC`, subscriberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PortfolioItem
	for rows.Next() {
		var (
			item          PortfolioItem
			amount, price string
		)
		if err := rows.Scan(&item.ID, &item.SubscriberID, &item.Code, &amount, &price, &item.Date); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amount, err)
		}
		if item.BuyPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("corrupt buy price %q: %w", price, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// RemovePortfolioItem deletes one holding by ID, scoped to the owning
// subscriber.
func (s *SQLite) RemovePortfolioItem(subscriberID int64, itemID string) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM portfolios
		WHERE subscriber_id = ? AND id = ?`,
		subscriberID, itemID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
