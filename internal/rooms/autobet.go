package rooms

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/jackpot"
)

// AutoBetIntent is a standing "keep betting every round" instruction for one
// room. It lives until the player disables it or logs out.
type AutoBetIntent struct {
	RoomID     string         `json:"room_id"`
	CashAmount int64          `json:"cash_amount"`
	Items      []jackpot.Item `json:"items,omitempty"`
	Enabled    bool           `json:"enabled"`
}

// WagerSender submits one wager toward the transport layer. It must return
// promptly (queueing internally is fine); the returned error only reports
// whether the submission was accepted.
type WagerSender interface {
	PlaceWager(ctx context.Context, roomID string, cashAmount int64, items []jackpot.Item) error
}

// IntentStore persists intents across restarts. Optional.
type IntentStore interface {
	UpsertAutoBetIntent(ctx context.Context, intent AutoBetIntent) error
	DeleteAutoBetIntent(ctx context.Context, roomID string) error
	ListAutoBetIntents(ctx context.Context) ([]AutoBetIntent, error)
}

// AutoBetManager re-submits a fixed wager at every round start for rooms with
// an enabled intent. At most one submission per round: duplicate started
// deliveries and overlapping in-flight requests are both guarded.
type AutoBetManager struct {
	playerID string
	sender   WagerSender
	store    IntentStore

	mu        sync.Mutex
	intents   map[string]AutoBetIntent
	inFlight  map[string]string // roomID -> roundID currently submitting
	attempted map[string]string // roomID -> last roundID a submission was tried for
}

func NewAutoBetManager(playerID string, sender WagerSender, store IntentStore) *AutoBetManager {
	return &AutoBetManager{
		playerID:  playerID,
		sender:    sender,
		store:     store,
		intents:   map[string]AutoBetIntent{},
		inFlight:  map[string]string{},
		attempted: map[string]string{},
	}
}

// Load restores persisted intents. Call once at startup.
func (m *AutoBetManager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	intents, err := m.store.ListAutoBetIntents(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range intents {
		if it.Enabled {
			m.intents[it.RoomID] = it
		}
	}
	return nil
}

func (m *AutoBetManager) Enable(ctx context.Context, roomID string, cashAmount int64, items []jackpot.Item) error {
	intent := AutoBetIntent{RoomID: roomID, CashAmount: cashAmount, Items: items, Enabled: true}
	if m.store != nil {
		if err := m.store.UpsertAutoBetIntent(ctx, intent); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.intents[roomID] = intent
	m.mu.Unlock()
	return nil
}

// Disable takes effect from the next round; a bet already placed for the
// current round stays.
func (m *AutoBetManager) Disable(ctx context.Context, roomID string) error {
	if m.store != nil {
		if err := m.store.DeleteAutoBetIntent(ctx, roomID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	delete(m.intents, roomID)
	m.mu.Unlock()
	return nil
}

func (m *AutoBetManager) Intent(roomID string) (AutoBetIntent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.intents[roomID]
	return it, ok
}

// OnRoundStarted submits the standing wager for a freshly started round.
// Returns true when a submission was sent and accepted. A rejected submission
// clears only this round's eligibility; the intent stays enabled.
func (m *AutoBetManager) OnRoundStarted(ctx context.Context, roomID, roundID string, players []jackpot.Bet) bool {
	m.mu.Lock()
	intent, ok := m.intents[roomID]
	if !ok || !intent.Enabled {
		m.mu.Unlock()
		return false
	}
	if m.attempted[roomID] == roundID {
		m.mu.Unlock()
		return false
	}
	if _, busy := m.inFlight[roomID]; busy {
		m.mu.Unlock()
		return false
	}
	for _, p := range players {
		if p.PlayerID == m.playerID {
			// Already in this round; burn the eligibility so a duplicate
			// started event cannot trigger a submission either.
			m.attempted[roomID] = roundID
			m.mu.Unlock()
			return false
		}
	}
	m.attempted[roomID] = roundID
	m.inFlight[roomID] = roundID
	m.mu.Unlock()

	err := m.sender.PlaceWager(ctx, roomID, intent.CashAmount, intent.Items)

	m.mu.Lock()
	delete(m.inFlight, roomID)
	m.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Str("room", roomID).Str("round", roundID).Msg("auto-bet submission rejected")
		return false
	}
	log.Info().Str("room", roomID).Str("round", roundID).Int64("cash", intent.CashAmount).Msg("auto-bet submitted")
	return true
}
