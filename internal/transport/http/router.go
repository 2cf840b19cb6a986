// Package httptransport exposes the engine's local API: room snapshots and
// countdowns, the SSE update stream, auto-bet control, and history lookups
// with fairness verification.
package httptransport

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/history"
	"jackpot-sync/internal/rooms"
	"jackpot-sync/internal/store"
)

func NewRouter(svc *rooms.Service, histSvc *history.Service, replayer *history.Replayer, st *store.Store) *chi.Mux {
	roomHandlers := NewRoomHandlers(svc)
	historyHandlers := NewHistoryHandlers(histSvc, replayer, svc.Feed())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", healthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/rooms", roomHandlers.Rooms())
		r.Get("/rooms/{room_id}/snapshot", roomHandlers.Snapshot())
		r.Get("/rooms/{room_id}/progress", roomHandlers.Progress())
		r.Post("/rooms/{room_id}/watch", roomHandlers.Watch())
		r.Delete("/rooms/{room_id}/watch", roomHandlers.Unwatch())
		r.Get("/rooms/{room_id}/autobet", roomHandlers.AutoBetIntent())
		r.Put("/rooms/{room_id}/autobet", roomHandlers.EnableAutoBet())
		r.Delete("/rooms/{room_id}/autobet", roomHandlers.DisableAutoBet())

		r.Get("/history", historyHandlers.Page())
		r.Get("/history/{round_id}", historyHandlers.Round())
		r.Post("/history/{round_id}/replay", historyHandlers.Replay())

		r.Get("/stream", StreamHandler(svc.Feed()))

		r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	})

	return r
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"ok": true}
		if st != nil {
			if err := st.Ping(r.Context()); err != nil {
				resp["store"] = "down"
			} else {
				resp["store"] = "up"
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
