// Package feed maintains the long-lived websocket connection to the
// upstream price feed. It turns server pushes into handler callbacks,
// answers one-shot price requests over the same socket, and reconnects
// with backoff when the transport drops.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rustyeddy/goldwatch/market"
)

const (
	DefaultDialTimeout       = 5000 * time.Millisecond
	DefaultMaxReconnects     = 10
	DefaultReconnectDelay    = 1000 * time.Millisecond
	DefaultReconnectDelayMax = 5000 * time.Millisecond
)

var (
	ErrNotConnected = errors.New("feed: not connected")
	ErrClosed       = errors.New("feed: client closed")
)

// Options configures the feed connection. Zero values select the
// defaults above.
type Options struct {
	URL               string
	DialTimeout       time.Duration
	MaxReconnects     int
	ReconnectDelay    time.Duration
	ReconnectDelayMax time.Duration
}

func (o *Options) setDefaults() {
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
	if o.MaxReconnects <= 0 {
		o.MaxReconnects = DefaultMaxReconnects
	}
	if o.ReconnectDelay <= 0 {
		o.ReconnectDelay = DefaultReconnectDelay
	}
	if o.ReconnectDelayMax <= 0 {
		o.ReconnectDelayMax = DefaultReconnectDelayMax
	}
}

// Handler receives connection lifecycle events and pushed price
// batches. Batch is invoked from a single goroutine in arrival order.
type Handler interface {
	Connected()
	Batch(updates map[string]market.PriceSample)
}

// Client is the stream client. It owns exactly one logical connection;
// losing the transport never clears any downstream state, it only
// schedules a reconnect.
type Client struct {
	opts Options
	log  *slog.Logger

	handler Handler

	reqID uint64

	writeMu sync.Mutex

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint64]chan market.PriceSample

	closed    chan struct{}
	exhausted chan struct{}
	closeOnce sync.Once
}

func NewClient(opts Options, log *slog.Logger) *Client {
	opts.setDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		opts:      opts,
		log:       log,
		pending:   make(map[uint64]chan market.PriceSample),
		closed:    make(chan struct{}),
		exhausted: make(chan struct{}),
	}
}

// Start binds the handler and begins the connect/reconnect loop.
func (c *Client) Start(h Handler) {
	c.handler = h
	go c.run()
}

// Close tears down the connection and stops the reconnect loop.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
	})
}

// Online reports whether a connection is currently established.
func (c *Client) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Exhausted is closed once the reconnect attempt cap is reached. The
// process keeps running on the frozen cache after that.
func (c *Client) Exhausted() <-chan struct{} {
	return c.exhausted
}

func (c *Client) run() {
	attempts := 0
	delay := c.opts.ReconnectDelay

	for {
		select {
		case <-c.closed:
			return
		default:
		}

		conn, err := c.dial()
		if err != nil {
			attempts++
			c.log.Error("feed connect failed",
				"url", c.opts.URL, "attempt", attempts, "error", err)
			if attempts >= c.opts.MaxReconnects {
				c.log.Error("feed reconnect attempts exhausted, cache frozen at last known state",
					"attempts", attempts)
				close(c.exhausted)
				return
			}
			select {
			case <-time.After(delay):
			case <-c.closed:
				return
			}
			delay += c.opts.ReconnectDelay
			if delay > c.opts.ReconnectDelayMax {
				delay = c.opts.ReconnectDelayMax
			}
			continue
		}

		attempts = 0
		delay = c.opts.ReconnectDelay

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		c.log.Info("feed connected", "url", c.opts.URL)
		c.handler.Connected()

		c.readLoop(conn)

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()

		select {
		case <-c.closed:
			return
		default:
			c.log.Warn("feed disconnected, reconnecting", "url", c.opts.URL)
		}
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.opts.DialTimeout}
	conn, _, err := dialer.Dial(c.opts.URL, nil)
	return conn, err
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
			default:
				c.log.Warn("feed read error", "error", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Warn("feed: bad message", "error", err)
			continue
		}

		switch env.Type {
		case typeHeartbeat:
			// keepalive only

		case typePriceChanged:
			var updates map[string]market.PriceSample
			if err := json.Unmarshal(env.Data, &updates); err != nil {
				c.log.Warn("feed: bad price batch", "error", err)
				continue
			}
			if len(updates) > 0 {
				c.handler.Batch(updates)
			}

		case typePrice:
			c.resolve(env.ID, env.Data)

		default:
			c.log.Debug("feed: unknown message type", "type", env.Type)
		}
	}
}

func (c *Client) resolve(id uint64, data json.RawMessage) {
	var sample market.PriceSample
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sample); err != nil {
			c.log.Warn("feed: bad price response", "id", id, "error", err)
			return
		}
	}

	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if ok {
		ch <- sample
	}
}

func (c *Client) unregister(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// FetchPrice sends one get_price request and waits for the correlated
// response. The caller's context carries the deadline; on expiry the
// request is abandoned and a late response is dropped.
func (c *Client) FetchPrice(ctx context.Context, code string) (market.PriceSample, error) {
	if err := market.ValidateCode(code); err != nil {
		return market.PriceSample{}, err
	}

	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return market.PriceSample{}, ErrNotConnected
	}
	id := atomic.AddUint64(&c.reqID, 1)
	ch := make(chan market.PriceSample, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	if err := c.writeJSON(conn, envelope{Type: typeGetPrice, ID: id, Code: code}); err != nil {
		c.unregister(id)
		return market.PriceSample{}, err
	}

	select {
	case sample := <-ch:
		return sample, nil
	case <-ctx.Done():
		c.unregister(id)
		return market.PriceSample{}, ctx.Err()
	case <-c.closed:
		c.unregister(id)
		return market.PriceSample{}, ErrClosed
	}
}

func (c *Client) writeJSON(conn *websocket.Conn, v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}
