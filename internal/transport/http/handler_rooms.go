package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"jackpot-sync/internal/rooms"
	"jackpot-sync/internal/store"
)

type RoomHandlers struct {
	svc *rooms.Service
}

func NewRoomHandlers(svc *rooms.Service) *RoomHandlers {
	return &RoomHandlers{svc: svc}
}

func (h *RoomHandlers) Rooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"rooms": h.svc.Rooms()})
	}
}

func (h *RoomHandlers) Snapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		snap, ok := h.svc.Snapshot(roomID)
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(snap)
	}
}

func (h *RoomHandlers) Progress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		p, ok := h.svc.Progress(roomID)
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(p)
	}
}

// Watch marks a room visible: its 1 Hz progress ticker starts publishing on
// the stream. Unwatch stops it.
func (h *RoomHandlers) Watch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "room_id")
		if err := h.svc.StartTicker(roomID); err != nil {
			WriteHTTPError(w, http.StatusNotFound, "room_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *RoomHandlers) Unwatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.svc.StopTicker(chi.URLParam(r, "room_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

type autoBetRequest struct {
	CashAmount int64 `json:"cash_amount"`
}

func (h *RoomHandlers) EnableAutoBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := h.svc.AutoBet()
		if mgr == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "autobet_disabled")
			return
		}
		roomID := chi.URLParam(r, "room_id")
		var req autoBetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CashAmount <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := mgr.Enable(r.Context(), roomID, req.CashAmount, nil); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *RoomHandlers) DisableAutoBet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := h.svc.AutoBet()
		if mgr == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "autobet_disabled")
			return
		}
		roomID := chi.URLParam(r, "room_id")
		if err := mgr.Disable(r.Context(), roomID); err != nil && !errors.Is(err, store.ErrNotFound) {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *RoomHandlers) AutoBetIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mgr := h.svc.AutoBet()
		if mgr == nil {
			WriteHTTPError(w, http.StatusNotImplemented, "autobet_disabled")
			return
		}
		intent, ok := mgr.Intent(chi.URLParam(r, "room_id"))
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "intent_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(intent)
	}
}
