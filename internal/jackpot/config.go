package jackpot

import (
	"fmt"
	"time"

	"jackpot-sync/internal/config"
)

// RoomConfig is the read-only per-stake-tier metadata injected at startup.
type RoomConfig struct {
	RoomID        string
	MinBetAmount  int64
	MaxBetAmount  int64
	PlayerLimit   int
	BetCountLimit int
	FeePercent    float64

	CountingTime time.Duration
	RollingTime  time.Duration
	WinnerTime   time.Duration
}

func (c RoomConfig) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("room config missing room id")
	}
	if c.CountingTime <= 0 {
		return fmt.Errorf("room %s: counting time must be positive", c.RoomID)
	}
	if c.WinnerTime < 0 {
		return fmt.Errorf("room %s: winner time must not be negative", c.RoomID)
	}
	if c.RollingTime <= c.WinnerTime {
		return fmt.Errorf("room %s: rolling time %v must exceed winner time %v", c.RoomID, c.RollingTime, c.WinnerTime)
	}
	return nil
}

// RoomConfigsFrom converts raw settings into validated RoomConfigs keyed by
// room id.
func RoomConfigsFrom(settings []config.RoomSetting) (map[string]RoomConfig, error) {
	out := make(map[string]RoomConfig, len(settings))
	for _, s := range settings {
		cfg := RoomConfig{
			RoomID:        s.RoomID,
			MinBetAmount:  s.MinBetAmount,
			MaxBetAmount:  s.MaxBetAmount,
			PlayerLimit:   s.PlayerLimit,
			BetCountLimit: s.BetCountLimit,
			FeePercent:    s.FeePercent,
			CountingTime:  time.Duration(s.CountingTimeSec) * time.Second,
			RollingTime:   time.Duration(s.RollingTimeSec) * time.Second,
			WinnerTime:    time.Duration(s.WinnerTimeSec) * time.Second,
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		out[cfg.RoomID] = cfg
	}
	return out, nil
}
