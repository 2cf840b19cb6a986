package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// RoomSetting is the raw per-stake-tier configuration as it appears in the
// rooms JSON document. Durations are whole seconds.
type RoomSetting struct {
	RoomID          string  `json:"room_id"`
	MinBetAmount    int64   `json:"min_bet_amount"`
	MaxBetAmount    int64   `json:"max_bet_amount"`
	PlayerLimit     int     `json:"player_limit"`
	BetCountLimit   int     `json:"bet_count_limit"`
	FeePercent      float64 `json:"fee_percent"`
	CountingTimeSec int     `json:"counting_time_sec"`
	RollingTimeSec  int     `json:"rolling_time_sec"`
	WinnerTimeSec   int     `json:"winner_time_sec"`
}

// LoadRooms reads room settings from ROOMS_CONFIG_PATH when set, otherwise
// from the inline ROOMS_CONFIG_JSON value.
func LoadRooms(cfg EngineConfig) ([]RoomSetting, error) {
	raw, err := roomsConfigJSON(cfg)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, fmt.Errorf("no rooms configured: set ROOMS_CONFIG_PATH or ROOMS_CONFIG_JSON")
	}
	var settings []RoomSetting
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("parse rooms config: %w", err)
	}
	if len(settings) == 0 {
		return nil, fmt.Errorf("rooms config is empty")
	}
	seen := make(map[string]bool, len(settings))
	for _, s := range settings {
		if strings.TrimSpace(s.RoomID) == "" {
			return nil, fmt.Errorf("rooms config entry missing room_id")
		}
		if seen[s.RoomID] {
			return nil, fmt.Errorf("duplicate room_id %q in rooms config", s.RoomID)
		}
		seen[s.RoomID] = true
	}
	return settings, nil
}

func roomsConfigJSON(cfg EngineConfig) (string, error) {
	path := strings.TrimSpace(cfg.RoomsConfigPath)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read rooms config path %q: %w", path, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(cfg.RoomsConfigJSON), nil
}
