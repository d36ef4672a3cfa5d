package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/goldwatch/cache"
	"github.com/rustyeddy/goldwatch/market"
)

// History receives every accepted price observation. Failures are the
// store's problem; the sync path only logs them.
type History interface {
	Append(code string, sample market.PriceSample, observedAt time.Time) error
}

// Notifier fans an accepted update batch out to subscribers.
type Notifier interface {
	Notify(updates map[string]market.PriceSample)
}

// Syncer routes feed events into the cache and triggers persistence and
// notification for the updates the cache accepted. It implements
// Handler; Batch runs on the client's single read goroutine, so pushes
// are applied in arrival order.
type Syncer struct {
	cache    *cache.PriceCache
	history  History
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewSyncer(c *cache.PriceCache, h History, n Notifier, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{
		cache:    c,
		history:  h,
		notifier: n,
		log:      log,
		now:      time.Now,
	}
}

// Connected primes the cache with one fetch per catalog instrument so a
// (re)connect never leaves the cache empty. Each instrument fails
// independently; refresh results update the cache only and trigger no
// persistence or fan-out.
func (s *Syncer) Connected() {
	go func() {
		var wg sync.WaitGroup
		for _, code := range market.Codes() {
			wg.Add(1)
			go func(code string) {
				defer wg.Done()
				if _, err := s.cache.Fresh(context.Background(), code, 0); err != nil {
					s.log.Warn("refresh-on-connect failed", "instrument", code, "error", err)
				}
			}(code)
		}
		wg.Wait()
		s.log.Info("cache primed after connect", "instruments", len(market.Instruments))
	}()
}

// Batch applies a pushed update batch. Entries that fail the cache's
// newness check are dropped silently; the rest are handed to the
// history store and the notifier without blocking the event path.
func (s *Syncer) Batch(updates map[string]market.PriceSample) {
	observedAt := s.now()
	accepted := make(map[string]market.PriceSample, len(updates))

	for code, sample := range updates {
		if !market.Valid(code) {
			s.log.Warn("feed pushed unknown instrument", "instrument", code)
			continue
		}
		if sample.Zero() {
			continue
		}
		if s.cache.Apply(code, sample, observedAt) {
			accepted[code] = sample
		}
	}

	if len(accepted) == 0 {
		return
	}

	go s.persist(accepted, observedAt)
	go s.notifier.Notify(accepted)
}

func (s *Syncer) persist(updates map[string]market.PriceSample, observedAt time.Time) {
	for code, sample := range updates {
		if err := s.history.Append(code, sample, observedAt); err != nil {
			s.log.Error("price history append failed",
				"instrument", code, "error", err)
		}
	}
}
