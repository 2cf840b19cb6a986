package history

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/jackpot"
)

// DefaultReplayRollDuration is how long a re-watched roll animation spins
// before settling back on the recorded outcome.
const DefaultReplayRollDuration = 10 * time.Second

// Replayer re-runs a finished round's roll animation: the snapshot flips to
// rolling for a fixed window, then automatically returns to rollend. The
// authoritative winner and slices are never touched.
type Replayer struct {
	clk      *clock.Synchronizer
	wall     clockwork.Clock
	duration time.Duration
}

func NewReplayer(clk *clock.Synchronizer, wall clockwork.Clock, duration time.Duration) *Replayer {
	if wall == nil {
		wall = clockwork.NewRealClock()
	}
	if duration <= 0 {
		duration = DefaultReplayRollDuration
	}
	return &Replayer{clk: clk, wall: wall, duration: duration}
}

// Start publishes the rolling view immediately and schedules the settle-back.
// publish receives both views in order; it must not block.
func (r *Replayer) Start(snap jackpot.RoundSnapshot, publish func(jackpot.RoundSnapshot)) (jackpot.RoundSnapshot, error) {
	if snap.Phase != jackpot.PhaseRollEnd || snap.WinnerID == "" {
		return jackpot.RoundSnapshot{}, fmt.Errorf("only finished rounds can be replayed")
	}

	rolling := snap.Clone()
	rolling.Phase = jackpot.PhaseRolling
	rolling.PhaseEnteredAt = r.clk.Now()
	publish(rolling)

	settled := snap.Clone()
	r.wall.AfterFunc(r.duration, func() {
		settled.PhaseEnteredAt = r.clk.Now()
		publish(settled)
	})
	return rolling, nil
}
