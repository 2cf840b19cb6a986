package history

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/jackpot"
)

// RoundStore caches fetched round records locally so fairness checks keep
// working when the game API is down.
type RoundStore interface {
	GetRound(ctx context.Context, roundID string) (Record, error)
	UpsertRound(ctx context.Context, rec Record) error
}

// Service is the read side for finished rounds: paged listings, cached
// single-round lookups, and reconstruction into displayable snapshots.
type Service struct {
	client *Client
	store  RoundStore
	recon  *Reconstructor
}

func NewService(client *Client, store RoundStore, recon *Reconstructor) *Service {
	return &Service{client: client, store: store, recon: recon}
}

// Page returns one page of raw records, newest first.
func (s *Service) Page(ctx context.Context, offset, count int, userName string) ([]Record, error) {
	return s.client.History(ctx, offset, count, userName)
}

// Round returns a single round's record, preferring the cache when the cached
// copy already carries the revealed server seed. A fresh fetch replaces a
// pending cache entry; a failed fetch falls back to whatever is cached.
func (s *Service) Round(ctx context.Context, roundID string) (Record, error) {
	var cached Record
	var haveCached bool
	if s.store != nil {
		rec, err := s.store.GetRound(ctx, roundID)
		if err == nil {
			if rec.ServerSeed != "" {
				return rec, nil
			}
			cached, haveCached = rec, true
		} else if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("round_id", roundID).Msg("round cache read failed")
		}
	}

	rec, err := s.client.Round(ctx, roundID)
	if err != nil {
		if haveCached && errors.Is(err, ErrUnavailable) {
			return cached, nil
		}
		return Record{}, err
	}
	if s.store != nil {
		if err := s.store.UpsertRound(ctx, rec); err != nil {
			log.Warn().Err(err).Str("round_id", roundID).Msg("round cache write failed")
		}
	}
	return rec, nil
}

// Reconstruct fetches and rebuilds one round for display.
func (s *Service) Reconstruct(ctx context.Context, roundID string) (jackpot.RoundSnapshot, Verification, error) {
	rec, err := s.Round(ctx, roundID)
	if err != nil {
		return jackpot.RoundSnapshot{}, Verification{}, err
	}
	return s.recon.Reconstruct(rec)
}
