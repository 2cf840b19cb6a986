package store

import (
	"context"
	"encoding/json"
	"fmt"

	"jackpot-sync/internal/history"
)

// RoundRepository implements history.RoundStore on Postgres. Records are
// stored whole as JSON; the only indexed facts are the round id and whether
// the server seed has been revealed.
type RoundRepository struct {
	s *Store
}

func (s *Store) Rounds() *RoundRepository {
	return &RoundRepository{s: s}
}

func (r *RoundRepository) GetRound(ctx context.Context, roundID string) (history.Record, error) {
	var raw []byte
	err := r.s.Pool.QueryRow(ctx,
		`SELECT record_json FROM round_records WHERE round_id = $1`, roundID).Scan(&raw)
	if err != nil {
		if mapNotFound(err) == ErrNotFound {
			return history.Record{}, history.ErrNotFound
		}
		return history.Record{}, err
	}
	var rec history.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return history.Record{}, fmt.Errorf("unmarshal round %s: %w", roundID, err)
	}
	return rec, nil
}

func (r *RoundRepository) UpsertRound(ctx context.Context, rec history.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal round %s: %w", rec.RoundID, err)
	}
	_, err = r.s.Pool.Exec(ctx, `
INSERT INTO round_records (round_id, record_json, revealed, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (round_id) DO UPDATE SET
	record_json = EXCLUDED.record_json,
	revealed    = EXCLUDED.revealed,
	updated_at  = now()`,
		rec.RoundID, raw, rec.ServerSeed != "")
	return err
}
