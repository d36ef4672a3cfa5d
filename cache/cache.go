// Package cache holds the latest known price per instrument and serves
// reads under a staleness contract. It is the only state shared between
// the feed's event path and concurrent on-demand callers.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rustyeddy/goldwatch/market"
)

const (
	// DefaultStaleAfter is the window inside which a cached entry is
	// served without touching the feed.
	DefaultStaleAfter = 1000 * time.Millisecond

	// DefaultFetchTimeout bounds a single on-demand fetch.
	DefaultFetchTimeout = 3000 * time.Millisecond
)

// ErrNoPrice means no sample has ever been observed for the instrument
// and the feed could not produce one either.
var ErrNoPrice = errors.New("no price available")

// Fetcher issues a one-shot price request over the live feed
// connection.
type Fetcher interface {
	FetchPrice(ctx context.Context, code string) (market.PriceSample, error)
}

// Entry is the cache's record for one instrument. Entries are replaced
// wholesale; fields are never updated in place.
type Entry struct {
	Code       string
	Sample     market.PriceSample
	ObservedAt time.Time
}

// PriceCache maps instrument codes to their most recent sample.
type PriceCache struct {
	fetcher Fetcher
	timeout time.Duration
	log     *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]Entry
}

// New returns an empty cache backed by fetcher for stale reads.
func New(fetcher Fetcher, timeout time.Duration, log *slog.Logger) *PriceCache {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &PriceCache{
		fetcher: fetcher,
		timeout: timeout,
		log:     log,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

// Cached returns the current entry without any network interaction.
func (c *PriceCache) Cached(code string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[code]
	return e, ok
}

// Apply installs a new entry for code unless an entry with an equal or
// later observation time is already present. It is the sole mutation
// path; returning false means the update was a duplicate or arrived out
// of order and must trigger no side effects.
func (c *PriceCache) Apply(code string, sample market.PriceSample, observedAt time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[code]; ok && !observedAt.After(cur.ObservedAt) {
		return false
	}
	c.entries[code] = Entry{Code: code, Sample: sample, ObservedAt: observedAt}
	return true
}

// Fresh returns an entry for code no older than staleAfter when it can.
// A stale or missing entry triggers one fetch over the feed; concurrent
// callers for the same instrument share that fetch. On fetch failure
// the previous entry is returned unchanged, or ErrNoPrice when none
// exists. staleAfter <= 0 selects DefaultStaleAfter.
func (c *PriceCache) Fresh(ctx context.Context, code string, staleAfter time.Duration) (Entry, error) {
	if err := market.ValidateCode(code); err != nil {
		return Entry{}, err
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	if e, ok := c.Cached(code); ok && c.now().Sub(e.ObservedAt) < staleAfter {
		return e, nil
	}

	// The fetch runs on its own deadline, not the caller's: waiters
	// piggybacking on an in-flight request must not have their result
	// cancelled by the first caller going away.
	ch := c.group.DoChan(code, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		sample, err := c.fetcher.FetchPrice(fctx, code)
		if err != nil {
			return nil, err
		}
		if sample.Zero() {
			return nil, errors.New("empty sample from feed")
		}
		c.Apply(code, sample, c.now())
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			c.log.Warn("price fetch failed, serving last known",
				"instrument", code, "error", res.Err)
		}
	case <-ctx.Done():
		// Caller gave up; the shared fetch keeps running for the
		// remaining waiters.
	}

	if e, ok := c.Cached(code); ok {
		return e, nil
	}
	return Entry{}, ErrNoPrice
}
