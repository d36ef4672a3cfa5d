package market

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrUnknownInstrument = errors.New("unknown instrument code")

// PriceSample is one quote as observed on the feed. Samples are values;
// nothing mutates them after construction.
type PriceSample struct {
	Buy        decimal.Decimal `json:"buy"`
	Sell       decimal.Decimal `json:"sell"`
	DayLow     decimal.Decimal `json:"low"`
	DayHigh    decimal.Decimal `json:"high"`
	PrevClose  decimal.Decimal `json:"close"`
	SourceTime string          `json:"time"`
}

// Zero reports whether the sample carries no usable quote. The feed
// sometimes answers a request with an empty body; those must not
// displace a real cache entry.
func (s PriceSample) Zero() bool {
	return s.Buy.IsZero() && s.Sell.IsZero()
}
