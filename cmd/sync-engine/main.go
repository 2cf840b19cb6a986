package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/config"
	"jackpot-sync/internal/history"
	"jackpot-sync/internal/jackpot"
	"jackpot-sync/internal/logging"
	"jackpot-sync/internal/rooms"
	"jackpot-sync/internal/store"
	httptransport "jackpot-sync/internal/transport/http"
	"jackpot-sync/internal/transport/ws"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadEngine()
	if err != nil {
		log.Fatal().Err(err).Msg("load engine config failed")
	}
	settings, err := config.LoadRooms(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load room settings failed")
	}
	roomConfigs, err := jackpot.RoomConfigsFrom(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid room settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.PostgresDSN != "" {
		st, err = store.New(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("db bootstrap failed")
		}
	}

	clkSync := clock.NewSynchronizer(nil)

	roomSvc := rooms.NewService(roomConfigs, clkSync)
	defer roomSvc.Close()
	feedClient := ws.NewClient(ws.ClientConfig{
		URL:           cfg.FeedURL,
		ReconnectWait: time.Duration(cfg.FeedReconnectWaitMS) * time.Millisecond,
		MaxReconnects: cfg.FeedMaxReconnects,
	}, clkSync, roomSvc)

	var intentStore rooms.IntentStore
	if st != nil {
		intentStore = st.Intents()
	}
	autobet := rooms.NewAutoBetManager(cfg.PlayerID, feedClient, intentStore)
	if err := autobet.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load auto-bet intents failed")
	}
	roomSvc.AttachAutoBet(autobet)

	historyClient := history.NewClient(cfg.APIBaseURL, cfg.Game, time.Duration(cfg.HistoryTimeoutMS)*time.Millisecond)
	var roundStore history.RoundStore
	if st != nil {
		roundStore = st.Rounds()
	}
	histSvc := history.NewService(historyClient, roundStore, history.NewReconstructor(clkSync))
	replayer := history.NewReplayer(clkSync, nil, 0)

	go func() {
		if err := feedClient.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("feed client stopped")
			stop()
		}
	}()

	router := httptransport.NewRouter(roomSvc, histSvc, replayer, st)
	httptransport.LogRoutes(router)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("game", cfg.Game).Int("rooms", len(roomConfigs)).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
