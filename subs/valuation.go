package subs

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/goldwatch/cache"
)

// Pricer supplies the current price under the cache's staleness
// contract.
type Pricer interface {
	Fresh(ctx context.Context, code string, staleAfter time.Duration) (cache.Entry, error)
}

// Position is one valued holding.
type Position struct {
	Item     PortfolioItem
	Priced   bool // false when no price was available
	BuyPrice decimal.Decimal
	Cost     decimal.Decimal
	Value    decimal.Decimal
	Profit   decimal.Decimal
}

// Valuation is a portfolio priced at the current market.
type Valuation struct {
	Positions   []Position
	TotalCost   decimal.Decimal
	TotalValue  decimal.Decimal
	TotalProfit decimal.Decimal
}

// Value prices every holding via the cache. An instrument with no
// available price yields an unpriced position and is left out of the
// totals; one dead instrument never sinks the whole report.
func Value(ctx context.Context, pricer Pricer, items []PortfolioItem) Valuation {
	var v Valuation

	for _, item := range items {
		pos := Position{
			Item: item,
			Cost: item.Amount.Mul(item.BuyPrice),
		}

		entry, err := pricer.Fresh(ctx, item.Code, 0)
		if err == nil {
			pos.Priced = true
			pos.BuyPrice = entry.Sample.Buy
			pos.Value = item.Amount.Mul(entry.Sample.Buy)
			pos.Profit = pos.Value.Sub(pos.Cost)

			v.TotalCost = v.TotalCost.Add(pos.Cost)
			v.TotalValue = v.TotalValue.Add(pos.Value)
			v.TotalProfit = v.TotalProfit.Add(pos.Profit)
		}

		v.Positions = append(v.Positions, pos)
	}

	return v
}
