package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type EngineConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8090"`

	// FeedURL is the websocket endpoint that pushes round events.
	FeedURL string `env:"FEED_URL" envDefault:"ws://localhost:8080/ws"`

	// APIBaseURL serves history and fairness lookups.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`

	// PostgresDSN is optional; empty disables the archive store.
	PostgresDSN string `env:"POSTGRES_DSN"`

	// PlayerID identifies the local player for auto-bet self-detection.
	PlayerID string `env:"PLAYER_ID"`

	Game string `env:"GAME" envDefault:"jackpot"`

	RoomsConfigPath string `env:"ROOMS_CONFIG_PATH"`
	RoomsConfigJSON string `env:"ROOMS_CONFIG_JSON"`

	FeedReconnectWaitMS int `env:"FEED_RECONNECT_WAIT_MS" envDefault:"2000"`
	FeedMaxReconnects   int `env:"FEED_MAX_RECONNECTS" envDefault:"-1"`

	HistoryTimeoutMS int `env:"HISTORY_TIMEOUT_MS" envDefault:"5000"`
}

func LoadEngine() (EngineConfig, error) {
	var cfg EngineConfig
	if err := env.Parse(&cfg); err != nil {
		return EngineConfig{}, err
	}
	cfg.Game = strings.TrimSpace(cfg.Game)
	switch cfg.Game {
	case "jackpot", "grand-jackpot":
	default:
		return EngineConfig{}, fmt.Errorf("unsupported game %q", cfg.Game)
	}
	if cfg.FeedReconnectWaitMS <= 0 {
		cfg.FeedReconnectWaitMS = 2000
	}
	if cfg.HistoryTimeoutMS <= 0 {
		cfg.HistoryTimeoutMS = 5000
	}
	return cfg, nil
}
