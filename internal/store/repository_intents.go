package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jackpot-sync/internal/jackpot"
	"jackpot-sync/internal/rooms"
)

// IntentRepository implements rooms.IntentStore on Postgres.
type IntentRepository struct {
	s *Store
}

func (s *Store) Intents() *IntentRepository {
	return &IntentRepository{s: s}
}

func (r *IntentRepository) UpsertAutoBetIntent(ctx context.Context, intent rooms.AutoBetIntent) error {
	items, err := json.Marshal(intent.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = r.s.Pool.Exec(ctx, `
INSERT INTO autobet_intents (room_id, cash_amount, items_json, enabled, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (room_id) DO UPDATE SET
	cash_amount = EXCLUDED.cash_amount,
	items_json  = EXCLUDED.items_json,
	enabled     = EXCLUDED.enabled,
	updated_at  = now()`,
		intent.RoomID, intent.CashAmount, items, intent.Enabled)
	return err
}

func (r *IntentRepository) DeleteAutoBetIntent(ctx context.Context, roomID string) error {
	tag, err := r.s.Pool.Exec(ctx, `DELETE FROM autobet_intents WHERE room_id = $1`, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *IntentRepository) ListAutoBetIntents(ctx context.Context) ([]rooms.AutoBetIntent, error) {
	rows, err := r.s.Pool.Query(ctx, `
SELECT room_id, cash_amount, items_json, enabled
FROM autobet_intents
ORDER BY room_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var intents []rooms.AutoBetIntent
	for rows.Next() {
		var intent rooms.AutoBetIntent
		var items []byte
		if err := rows.Scan(&intent.RoomID, &intent.CashAmount, &items, &intent.Enabled); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			var parsed []jackpot.Item
			if err := json.Unmarshal(items, &parsed); err != nil {
				return nil, fmt.Errorf("unmarshal items for room %s: %w", intent.RoomID, err)
			}
			intent.Items = parsed
		}
		intents = append(intents, intent)
	}
	return intents, rows.Err()
}
