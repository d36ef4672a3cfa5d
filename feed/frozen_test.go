package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/goldwatch/cache"
)

// Once reconnect attempts are exhausted the process keeps serving the
// frozen cache: reads succeed with the last known values, they just age
// past the staleness window.
func TestCacheServesAfterFeedGivesUp(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	client := NewClient(Options{
		URL:               url,
		DialTimeout:       200 * time.Millisecond,
		MaxReconnects:     2,
		ReconnectDelay:    5 * time.Millisecond,
		ReconnectDelayMax: 10 * time.Millisecond,
	}, testLogger())

	prices := cache.New(client, 100*time.Millisecond, testLogger())
	observed := time.Now().Add(-time.Hour)
	prices.Apply("ALTIN", pushSample(4000), observed)

	client.Start(newCaptureHandler())
	defer client.Close()

	select {
	case <-client.Exhausted():
	case <-time.After(3 * time.Second):
		t.Fatal("client never gave up")
	}

	// Well past any staleness window; the fetch fails with
	// ErrNotConnected and the stale entry is still served.
	entry, err := prices.Fresh(context.Background(), "ALTIN", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, observed, entry.ObservedAt)
	assert.True(t, entry.Sample.Buy.Equal(decimal.NewFromFloat(4000)))
}
