package rooms

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTickerFiresOnInterval(t *testing.T) {
	fake := clockwork.NewFakeClock()
	tk := NewTicker(fake, time.Second)

	ticks := make(chan struct{}, 8)
	tk.Start(func() { ticks <- struct{}{} })
	defer tk.Stop()

	fake.BlockUntil(1)
	fake.Advance(time.Second)
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a tick after advancing 1s")
	}

	fake.Advance(time.Second)
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a second tick")
	}
}

func TestTickerStopHalts(t *testing.T) {
	fake := clockwork.NewFakeClock()
	tk := NewTicker(fake, time.Second)

	ticks := make(chan struct{}, 8)
	tk.Start(func() { ticks <- struct{}{} })
	fake.BlockUntil(1)
	tk.Stop()

	fake.Advance(5 * time.Second)
	select {
	case <-ticks:
		t.Fatal("tick after Stop")
	default:
	}

	// Stop again is safe.
	tk.Stop()
}

func TestTickerStartIdempotent(t *testing.T) {
	fake := clockwork.NewFakeClock()
	tk := NewTicker(fake, time.Second)

	ticks := make(chan struct{}, 8)
	tk.Start(func() { ticks <- struct{}{} })
	tk.Start(func() { t.Fatal("second Start must not spawn a second loop") })
	defer tk.Stop()

	fake.BlockUntil(1)
	fake.Advance(time.Second)
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("expected tick from the original loop")
	}
}
