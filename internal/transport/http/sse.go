package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/rooms"
)

var ssePingInterval = 15 * time.Second

func SetSSEHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("X-Content-Type-Options", "nosniff")
}

func WriteSSE(w http.ResponseWriter, ev rooms.FeedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.EventID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.EventID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", ev.Kind); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	return nil
}

// StreamHandler serves the engine's update feed as SSE. Last-Event-ID resumes
// from the bounded buffer; an optional room_id query narrows the stream to
// one room (replay events pass through unfiltered).
func StreamHandler(feed *rooms.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported")
			return
		}
		roomFilter := r.URL.Query().Get("room_id")
		wants := func(ev rooms.FeedEvent) bool {
			if roomFilter == "" || ev.Kind == rooms.FeedKindReplay {
				return true
			}
			return ev.RoomID == roomFilter
		}

		metricStreamConnectionsTotal.Add(1)
		metricStreamConnectionsActive.Add(1)
		defer metricStreamConnectionsActive.Add(-1)

		SetSSEHeaders(w)
		log.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("room_filter", roomFilter).
			Msg("stream opened")

		for _, ev := range feed.ReplayAfter(r.Header.Get("Last-Event-ID")) {
			if !wants(ev) {
				continue
			}
			if err := WriteSSE(w, ev); err != nil {
				return
			}
		}
		flusher.Flush()

		ch := feed.Subscribe()
		defer feed.Unsubscribe(ch)
		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				log.Info().
					Str("request_id", chimw.GetReqID(r.Context())).
					Msg("stream closed")
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if !wants(ev) {
					continue
				}
				if err := WriteSSE(w, ev); err != nil {
					return
				}
				flusher.Flush()
			case <-ticker.C:
				ping := rooms.FeedEvent{Kind: "ping", ServerTS: time.Now().UnixMilli()}
				if err := WriteSSE(w, ping); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
