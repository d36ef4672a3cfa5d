package feed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/goldwatch/cache"
	"github.com/rustyeddy/goldwatch/market"
)

type appendCall struct {
	code       string
	sample     market.PriceSample
	observedAt time.Time
}

type fakeHistory struct {
	ch chan appendCall
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{ch: make(chan appendCall, 64)}
}

func (f *fakeHistory) Append(code string, sample market.PriceSample, observedAt time.Time) error {
	f.ch <- appendCall{code, sample, observedAt}
	return nil
}

type fakeNotifier struct {
	ch chan map[string]market.PriceSample
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{ch: make(chan map[string]market.PriceSample, 8)}
}

func (f *fakeNotifier) Notify(updates map[string]market.PriceSample) {
	f.ch <- updates
}

type stubFetcher struct {
	sample market.PriceSample
	err    error
}

func (s *stubFetcher) FetchPrice(context.Context, string) (market.PriceSample, error) {
	return s.sample, s.err
}

func pushSample(buy float64) market.PriceSample {
	return market.PriceSample{
		Buy:  decimal.NewFromFloat(buy),
		Sell: decimal.NewFromFloat(buy + 5),
	}
}

func newTestSyncer(t *testing.T, f cache.Fetcher) (*Syncer, *cache.PriceCache, *fakeHistory, *fakeNotifier) {
	t.Helper()

	c := cache.New(f, 50*time.Millisecond, testLogger())
	hist := newFakeHistory()
	not := newFakeNotifier()
	return NewSyncer(c, hist, not, testLogger()), c, hist, not
}

func TestSyncerBatchUpdatesCacheAndFansOut(t *testing.T) {
	t.Parallel()

	s, c, hist, not := newTestSyncer(t, &stubFetcher{err: ErrNotConnected})

	s.Batch(map[string]market.PriceSample{
		"ALTIN": pushSample(4000),
		"ONS":   pushSample(2300),
	})

	e, ok := c.Cached("ALTIN")
	require.True(t, ok)
	assert.True(t, e.Sample.Buy.Equal(decimal.NewFromFloat(4000)))

	select {
	case batch := <-not.ch:
		assert.Len(t, batch, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier never called")
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case call := <-hist.ch:
			seen[call.code] = true
		case <-time.After(2 * time.Second):
			t.Fatal("history append missing")
		}
	}
	assert.True(t, seen["ALTIN"])
	assert.True(t, seen["ONS"])
}

func TestSyncerDuplicateBatchIsNoop(t *testing.T) {
	t.Parallel()

	s, _, hist, not := newTestSyncer(t, &stubFetcher{err: ErrNotConnected})

	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	batch := map[string]market.PriceSample{"ALTIN": pushSample(4000)}
	s.Batch(batch)

	select {
	case <-not.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("first batch not delivered")
	}
	<-hist.ch

	// Same observation replayed: cache rejects it, so neither the
	// store nor the subscribers hear about it again.
	s.Batch(batch)

	select {
	case extra := <-not.ch:
		t.Fatalf("duplicate batch fanned out: %v", extra)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Empty(t, hist.ch)
}

func TestSyncerDropsUnknownAndEmpty(t *testing.T) {
	t.Parallel()

	s, c, hist, not := newTestSyncer(t, &stubFetcher{err: ErrNotConnected})

	s.Batch(map[string]market.PriceSample{
		"DOGE":  pushSample(1),       // not in the catalog
		"ALTIN": {},                  // empty quote
	})

	_, ok := c.Cached("ALTIN")
	assert.False(t, ok)
	_, ok = c.Cached("DOGE")
	assert.False(t, ok)

	select {
	case batch := <-not.ch:
		t.Fatalf("nothing should fan out, got %v", batch)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Empty(t, hist.ch)
}

func TestSyncerConnectedPrimesCache(t *testing.T) {
	t.Parallel()

	s, c, hist, not := newTestSyncer(t, &stubFetcher{sample: pushSample(4000)})

	s.Connected()

	assert.Eventually(t, func() bool {
		for _, code := range market.Codes() {
			if _, ok := c.Cached(code); !ok {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond, "refresh should populate every catalog instrument")

	// Priming only feeds the cache.
	assert.Empty(t, hist.ch)
	assert.Empty(t, not.ch)
}

func TestSyncerConnectedSurvivesFetchFailures(t *testing.T) {
	t.Parallel()

	s, c, _, _ := newTestSyncer(t, &stubFetcher{err: ErrNotConnected})

	// Pre-seed one instrument; the failing refresh must leave it alone.
	at := time.Now()
	c.Apply("ALTIN", pushSample(4000), at)

	s.Connected()
	time.Sleep(100 * time.Millisecond)

	e, ok := c.Cached("ALTIN")
	require.True(t, ok)
	assert.Equal(t, at, e.ObservedAt)
}
