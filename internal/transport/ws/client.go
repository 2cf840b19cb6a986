package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/jackpot"
)

// EventSink receives decoded round events. rooms.Service satisfies it.
type EventSink interface {
	HandleEvent(ev jackpot.Event)
}

// ClientConfig tunes the feed connection. MaxReconnects < 0 retries forever.
type ClientConfig struct {
	URL           string
	ReconnectWait time.Duration
	MaxReconnects int
}

// Client maintains the push-feed connection: dial, welcome handshake for
// clock sync, event dispatch, and reconnect with a fixed wait. It also
// carries outbound wagers on the same socket.
type Client struct {
	cfg  ClientConfig
	clk  *clock.Synchronizer
	sink EventSink

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(cfg ClientConfig, clk *clock.Synchronizer, sink EventSink) *Client {
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	return &Client{cfg: cfg, clk: clk, sink: sink}
}

// Run connects and processes frames until ctx is cancelled or the reconnect
// budget runs out. Each successful connection resets the attempt counter.
func (c *Client) Run(ctx context.Context) error {
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		connected, err := c.connectAndRead(ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return ctx.Err()
		}
		if connected {
			attempts = 0
		}
		attempts++
		if c.cfg.MaxReconnects >= 0 && attempts > c.cfg.MaxReconnects {
			return fmt.Errorf("feed reconnect budget exhausted: %w", err)
		}
		log.Warn().Err(err).Int("attempt", attempts).Msg("feed disconnected, reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.ReconnectWait):
		}
	}
}

func (c *Client) connectAndRead(ctx context.Context) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	// Close the socket when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	log.Info().Str("url", c.cfg.URL).Msg("feed connected")
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true, context.Canceled
			}
			return true, fmt.Errorf("read: %w", err)
		}
		c.handleFrame(raw)
	}
}

func (c *Client) handleFrame(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Warn().Err(err).Msg("malformed feed frame")
		return
	}
	switch frame.Type {
	case frameWelcome:
		var w WelcomePayload
		if err := json.Unmarshal(frame.Payload, &w); err != nil {
			log.Warn().Err(err).Msg("malformed welcome payload")
			return
		}
		c.clk.Sync(w.ServerTime)
	case framePing:
		// keepalive, nothing to do
	default:
		ev, ok, err := DecodeEvent(frame)
		if err != nil {
			log.Warn().Err(err).Str("type", frame.Type).Msg("dropping undecodable event")
			return
		}
		if !ok {
			log.Debug().Str("type", frame.Type).Msg("ignoring unknown frame type")
			return
		}
		c.sink.HandleEvent(ev)
	}
}

func (c *Client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return errors.New("feed not connected")
	}
	return c.conn.WriteJSON(v)
}
