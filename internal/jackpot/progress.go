package jackpot

import (
	"math"
	"time"
)

// Progress is the derived countdown view for one room at one instant. Max and
// Count are whole seconds; Roll marks the wheel-spinning window.
type Progress struct {
	Max   int  `json:"max"`
	Count int  `json:"count"`
	Roll  bool `json:"roll"`
}

// ComputeProgress maps (phase, phase entry time, corrected now) to a
// countdown. It is a pure snapshot-to-progress function; the caller re-invokes
// it at 1 Hz.
//
// When the started window has fully elapsed but the server's rolling event has
// not arrived yet, the round is treated as already rolling so the countdown
// never goes negative. If the authoritative event is later than the whole
// local rolling window, the count clamps at 0 until the event lands.
func ComputeProgress(phase Phase, enteredAt, now time.Time, cfg RoomConfig) Progress {
	elapsed := now.Sub(enteredAt)
	if elapsed < 0 {
		elapsed = 0
	}

	var window time.Duration
	roll := false
	switch phase {
	case PhaseStarted:
		window = cfg.CountingTime
		if elapsed > cfg.CountingTime {
			elapsed -= cfg.CountingTime
			window = cfg.RollingTime - cfg.WinnerTime
			roll = true
		}
	case PhaseRolling:
		window = cfg.RollingTime - cfg.WinnerTime
		roll = true
	case PhaseRollEnd:
		window = cfg.WinnerTime
	default:
		// available/created render idle.
		return Progress{}
	}

	max := int(window / time.Second)
	count := max - int(math.Ceil(elapsed.Seconds()))
	if count < 0 {
		count = 0
	}
	if count > max {
		count = max
	}
	return Progress{Max: max, Count: count, Roll: roll}
}
