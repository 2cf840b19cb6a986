package ws

import (
	"context"

	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/jackpot"
	"jackpot-sync/internal/store"
)

// PlaceWager sends one wager frame upstream. Each submission carries a fresh
// request id so a retried frame cannot double-spend. Implements
// rooms.WagerSender.
func (c *Client) PlaceWager(ctx context.Context, roomID string, cashAmount int64, items []jackpot.Item) error {
	frame := wagerFrame{
		Type:       "placeWager",
		RoomID:     roomID,
		RequestID:  store.NewID(),
		CashAmount: cashAmount,
	}
	if len(items) > 0 {
		frame.Items = make([]outboundItem, len(items))
		for i, it := range items {
			frame.Items[i] = outboundItem{ID: it.ID}
		}
	}
	if err := c.send(frame); err != nil {
		return err
	}
	log.Debug().
		Str("room_id", roomID).
		Str("request_id", frame.RequestID).
		Int64("cash_amount", cashAmount).
		Msg("wager submitted")
	return nil
}
