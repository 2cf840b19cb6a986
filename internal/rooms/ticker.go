package rooms

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Ticker drives a read-only callback at a fixed cadence for one visible room.
// It owns an explicit Start/Stop lifecycle instead of piggybacking on render
// cycles; multiple tickers run independently since each only reads its own
// room's snapshot.
type Ticker struct {
	clk      clockwork.Clock
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewTicker(clk clockwork.Clock, interval time.Duration) *Ticker {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{clk: clk, interval: interval}
}

// Start begins invoking fn once per interval until Stop. No-op when already
// running.
func (t *Ticker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.loop(fn, t.stop, t.done)
}

// Stop halts the ticker and waits for the loop to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stop, done := t.stop, t.done
	t.mu.Unlock()

	close(stop)
	<-done
}

func (t *Ticker) loop(fn func(), stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	tk := t.clk.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.Chan():
			fn()
		}
	}
}
