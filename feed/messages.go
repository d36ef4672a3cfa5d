package feed

import "encoding/json"

// Message types on the feed socket. The upstream pushes price_changed
// batches and answers get_price requests with a price message carrying
// the request id back.
const (
	typePriceChanged = "price_changed"
	typeGetPrice     = "get_price"
	typePrice        = "price"
	typeHeartbeat    = "heartbeat"
)

type envelope struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id,omitempty"`
	Code string          `json:"code,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}
