package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/jackpot"
)

type sinkRecorder struct {
	mu     sync.Mutex
	events []jackpot.Event
}

func (s *sinkRecorder) HandleEvent(ev jackpot.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *sinkRecorder) snapshot() []jackpot.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]jackpot.Event, len(s.events))
	copy(out, s.events)
	return out
}

func feedServer(t *testing.T, frames []string) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// hold the connection open until the client hangs up
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestClientSyncsClockFromWelcome(t *testing.T) {
	serverTime := time.Now().Add(30 * time.Second).UTC().Format(time.RFC3339Nano)
	srv, url := feedServer(t, []string{
		`{"type":"welcome","payload":{"serverTime":"` + serverTime + `"}}`,
	})
	defer srv.Close()

	clkSync := clock.NewSynchronizer(nil)
	c := NewClient(ClientConfig{URL: url, MaxReconnects: 0}, clkSync, &sinkRecorder{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitFor(t, clkSync.Synced)
	offset := clkSync.Offset()
	if offset < 25*time.Second || offset > 35*time.Second {
		t.Fatalf("offset = %v, want about 30s", offset)
	}
}

func TestClientDispatchesRoundEvents(t *testing.T) {
	srv, url := feedServer(t, []string{
		`{"type":"roundCreated","roomId":"r1","payload":{"roundId":"7"}}`,
		`{"type":"betPlaced","roomId":"r1","payload":{"roundId":"7","bet":{"playerId":"p1","cashAmount":10}}}`,
		`{"type":"mysteryFrame","roomId":"r1"}`,
		`not even json`,
		`{"type":"roundStarted","roomId":"r1","payload":{"roundId":"7"}}`,
	})
	defer srv.Close()

	sink := &sinkRecorder{}
	c := NewClient(ClientConfig{URL: url, MaxReconnects: 0}, clock.NewSynchronizer(nil), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	waitFor(t, func() bool { return len(sink.snapshot()) == 3 })
	events := sink.snapshot()
	if events[0].Type != jackpot.EventRoundCreated ||
		events[1].Type != jackpot.EventBetPlaced ||
		events[2].Type != jackpot.EventRoundStarted {
		t.Fatalf("events = %+v", events)
	}
}

func TestClientReconnectBudgetExhausts(t *testing.T) {
	c := NewClient(ClientConfig{
		URL:           "ws://127.0.0.1:1/feed",
		ReconnectWait: time.Millisecond,
		MaxReconnects: 2,
	}, clock.NewSynchronizer(nil), &sinkRecorder{})

	err := c.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "reconnect budget") {
		t.Fatalf("err = %v, want budget exhausted", err)
	}
}

func TestClientStopsOnContextCancel(t *testing.T) {
	srv, url := feedServer(t, nil)
	defer srv.Close()

	c := NewClient(ClientConfig{URL: url, MaxReconnects: -1}, clock.NewSynchronizer(nil), &sinkRecorder{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestPlaceWagerRequiresConnection(t *testing.T) {
	c := NewClient(ClientConfig{URL: "ws://unused"}, clock.NewSynchronizer(nil), &sinkRecorder{})
	if err := c.PlaceWager(context.Background(), "r1", 100, nil); err == nil {
		t.Fatalf("expected error while disconnected")
	}
}
