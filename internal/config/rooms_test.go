package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleRooms = `[
  {"room_id":"small","min_bet_amount":100,"max_bet_amount":10000,"player_limit":50,"bet_count_limit":3,"fee_percent":5,"counting_time_sec":40,"rolling_time_sec":55,"winner_time_sec":15},
  {"room_id":"grand","min_bet_amount":1000,"max_bet_amount":0,"player_limit":200,"bet_count_limit":5,"fee_percent":5,"counting_time_sec":86400,"rolling_time_sec":55,"winner_time_sec":15}
]`

func TestLoadRoomsInline(t *testing.T) {
	settings, err := LoadRooms(EngineConfig{RoomsConfigJSON: sampleRooms})
	if err != nil {
		t.Fatalf("LoadRooms() error = %v", err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(settings))
	}
	if settings[0].RoomID != "small" || settings[0].CountingTimeSec != 40 {
		t.Fatalf("unexpected first room: %+v", settings[0])
	}
}

func TestLoadRoomsPathWinsOverInline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.json")
	if err := os.WriteFile(path, []byte(sampleRooms), 0o644); err != nil {
		t.Fatalf("write temp rooms config: %v", err)
	}
	settings, err := LoadRooms(EngineConfig{RoomsConfigPath: path, RoomsConfigJSON: `[]`})
	if err != nil {
		t.Fatalf("LoadRooms() error = %v", err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected rooms from path, got %d entries", len(settings))
	}
}

func TestLoadRoomsRejectsDuplicates(t *testing.T) {
	dup := `[{"room_id":"a"},{"room_id":"a"}]`
	_, err := LoadRooms(EngineConfig{RoomsConfigJSON: dup})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate room error, got %v", err)
	}
}

func TestLoadRoomsEmpty(t *testing.T) {
	if _, err := LoadRooms(EngineConfig{}); err == nil {
		t.Fatal("expected error when no rooms configured")
	}
}

func TestLoadEngineRejectsUnknownGame(t *testing.T) {
	t.Setenv("GAME", "roulette")
	if _, err := LoadEngine(); err == nil {
		t.Fatal("expected error for unsupported game")
	}
}

func TestLoadEngineDefaults(t *testing.T) {
	cfg, err := LoadEngine()
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if cfg.Game != "jackpot" || cfg.HTTPAddr != ":8090" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
