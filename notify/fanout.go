// Package notify delivers price-change notices to subscribers.
// Delivery is best effort and at most once; nothing here retries.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rustyeddy/goldwatch/market"
)

// Sink is the delivery capability (a chat bot, mailer, whatever the
// front-end plugs in). A failed delivery is the recipient's loss only.
type Sink interface {
	Deliver(subscriberID int64, message string) error
}

// Directory resolves who follows an instrument.
type Directory interface {
	SubscribersOf(code string) ([]int64, error)
}

// Fanout holds no state of its own; every call is a pure function of
// the batch plus a directory read.
type Fanout struct {
	dir  Directory
	sink Sink
	log  *slog.Logger
}

func NewFanout(dir Directory, sink Sink, log *slog.Logger) *Fanout {
	if log == nil {
		log = slog.Default()
	}
	return &Fanout{dir: dir, sink: sink, log: log}
}

// Notify delivers one formatted message per updated instrument to each
// of its subscribers. Failures are isolated per (instrument, recipient)
// pair: a directory error skips one instrument, a delivery error skips
// one recipient.
func (f *Fanout) Notify(updates map[string]market.PriceSample) {
	for code, sample := range updates {
		subscribers, err := f.dir.SubscribersOf(code)
		if err != nil {
			f.log.Error("subscriber lookup failed", "instrument", code, "error", err)
			continue
		}
		if len(subscribers) == 0 {
			continue
		}

		msg := FormatMessage(code, sample)
		for _, id := range subscribers {
			if err := f.sink.Deliver(id, msg); err != nil {
				f.log.Warn("notification delivery failed",
					"instrument", code, "subscriber", id, "error", err)
			}
		}
	}
}

// FormatMessage renders the human-readable notice for one instrument.
func FormatMessage(code string, sample market.PriceSample) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s) current price:\n", market.Name(code), code)
	fmt.Fprintf(&b, "Buy: %s\n", sample.Buy)
	fmt.Fprintf(&b, "Sell: %s\n", sample.Sell)
	fmt.Fprintf(&b, "Time: %s\n", sample.SourceTime)
	fmt.Fprintf(&b, "Day low: %s\n", sample.DayLow)
	fmt.Fprintf(&b, "Day high: %s\n", sample.DayHigh)
	fmt.Fprintf(&b, "Previous close: %s", sample.PrevClose)

	return b.String()
}
