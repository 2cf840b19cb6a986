// Package clock keeps a single drift offset between the local clock and the
// server's authoritative clock. Every component that compares a server
// timestamp against "now" goes through Synchronizer.Now instead of reading the
// system clock directly.
package clock

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Synchronizer struct {
	clk clockwork.Clock

	mu     sync.RWMutex
	offset time.Duration
	synced bool
}

func NewSynchronizer(clk clockwork.Clock) *Synchronizer {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Synchronizer{clk: clk}
}

// Sync records the offset between the given server timestamp and the local
// clock. Called once per connection; a reconnect may call it again. Rounds in
// flight keep whatever offset they observed, the next comparison simply uses
// the fresher value.
func (s *Synchronizer) Sync(serverTime time.Time) {
	if serverTime.IsZero() {
		return
	}
	offset := serverTime.Sub(s.clk.Now())
	s.mu.Lock()
	s.offset = offset
	s.synced = true
	s.mu.Unlock()
	log.Debug().Dur("offset", offset).Msg("clock synchronized")
}

// Offset returns the current drift correction. Zero until the first Sync,
// which means the local clock is trusted provisionally.
func (s *Synchronizer) Offset() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Synced reports whether a server timestamp has ever been observed.
func (s *Synchronizer) Synced() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.synced
}

// Now returns the drift-corrected current time.
func (s *Synchronizer) Now() time.Time {
	s.mu.RLock()
	offset := s.offset
	s.mu.RUnlock()
	return s.clk.Now().Add(offset)
}
