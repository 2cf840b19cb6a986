package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jackpot-sync/internal/history"
	"jackpot-sync/internal/jackpot"
	"jackpot-sync/internal/rooms"
)

type HistoryHandlers struct {
	svc      *history.Service
	replayer *history.Replayer
	feed     *rooms.Feed
}

func NewHistoryHandlers(svc *history.Service, replayer *history.Replayer, feed *rooms.Feed) *HistoryHandlers {
	return &HistoryHandlers{svc: svc, replayer: replayer, feed: feed}
}

// Page lists finished rounds, newest first. Supports offset/count pagination
// and an optional userName filter passed through to the game API.
func (h *HistoryHandlers) Page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricHistoryQueryTotal.Add(1)
		count, offset := ParsePagination(r)
		page, err := h.svc.Page(r.Context(), offset, count, r.URL.Query().Get("userName"))
		if err != nil {
			metricHistoryQueryErrors.Add(1)
			WriteHTTPError(w, http.StatusBadGateway, "history_unavailable")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"offset": offset,
			"count":  count,
			"rounds": page,
		})
	}
}

type roundResponse struct {
	Snapshot     jackpot.RoundSnapshot `json:"snapshot"`
	Verification history.Verification  `json:"verification"`
}

// Round reconstructs one finished round with its fairness verification.
func (h *HistoryHandlers) Round() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricHistoryQueryTotal.Add(1)
		snap, ver, err := h.svc.Reconstruct(r.Context(), chi.URLParam(r, "round_id"))
		if err != nil {
			metricHistoryQueryErrors.Add(1)
			writeHistoryError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(roundResponse{Snapshot: snap, Verification: ver})
	}
}

// Replay re-runs a finished round's roll animation on the event stream.
func (h *HistoryHandlers) Replay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricReplayStartTotal.Add(1)
		roundID := chi.URLParam(r, "round_id")
		snap, _, err := h.svc.Reconstruct(r.Context(), roundID)
		if err != nil {
			metricReplayStartErrors.Add(1)
			writeHistoryError(w, err)
			return
		}
		rolling, err := h.replayer.Start(snap, func(view jackpot.RoundSnapshot) {
			h.feed.Publish(rooms.FeedKindReplay, "history/"+roundID, view.PhaseEnteredAt, view)
		})
		if err != nil {
			metricReplayStartErrors.Add(1)
			WriteHTTPError(w, http.StatusConflict, "round_not_replayable")
			return
		}
		_ = json.NewEncoder(w).Encode(rolling)
	}
}

func writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "round_not_found")
	case errors.Is(err, history.ErrUnavailable):
		WriteHTTPError(w, http.StatusBadGateway, "history_unavailable")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
