// Package rooms owns the per-room round machines and everything that reacts
// to their transitions: the snapshot feed, the per-room countdown tickers,
// and the auto-bet manager. One Service instance is injected into consumers;
// there is no ambient global room state.
package rooms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/jackpot"
)

type Service struct {
	clk     *clock.Synchronizer
	tickClk clockwork.Clock
	feed    *Feed
	autobet *AutoBetManager

	mu       sync.Mutex
	configs  map[string]jackpot.RoomConfig
	machines map[string]*jackpot.RoundMachine
	tickers  map[string]*Ticker
}

type Option func(*Service)

func WithAutoBet(m *AutoBetManager) Option {
	return func(s *Service) { s.autobet = m }
}

// WithTickerClock swaps the wall clock driving the 1 Hz tickers; tests pass a
// fake clock.
func WithTickerClock(clk clockwork.Clock) Option {
	return func(s *Service) { s.tickClk = clk }
}

func WithFeedSize(max int) Option {
	return func(s *Service) { s.feed = NewFeed(max) }
}

func NewService(configs map[string]jackpot.RoomConfig, clk *clock.Synchronizer, opts ...Option) *Service {
	s := &Service{
		clk:      clk,
		tickClk:  clockwork.NewRealClock(),
		feed:     NewFeed(0),
		configs:  configs,
		machines: make(map[string]*jackpot.RoundMachine, len(configs)),
		tickers:  map[string]*Ticker{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Feed() *Feed {
	return s.feed
}

func (s *Service) AutoBet() *AutoBetManager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autobet
}

// AttachAutoBet wires the manager after construction. The wager sender is
// usually the feed client, which itself needs the service as its event sink,
// so the manager cannot exist yet when the service is built.
func (s *Service) AttachAutoBet(m *AutoBetManager) {
	s.mu.Lock()
	s.autobet = m
	s.mu.Unlock()
}

// HandleEvent routes one inbound push event to its room's machine. Events for
// unknown rooms are dropped. Mutation happens synchronously under the room
// map lock; per-room ordering is the transport's job, staleness the
// machine's.
func (s *Service) HandleEvent(ev jackpot.Event) {
	if ev.RoomID == "" {
		log.Warn().Str("type", string(ev.Type)).Msg("event missing room id, dropped")
		return
	}

	s.mu.Lock()
	cfg, ok := s.configs[ev.RoomID]
	if !ok {
		s.mu.Unlock()
		log.Warn().Str("room", ev.RoomID).Str("type", string(ev.Type)).Msg("event for unknown room, dropped")
		return
	}
	m, ok := s.machines[ev.RoomID]
	if !ok {
		m = jackpot.NewRoundMachine(cfg, s.clk.Now)
		s.machines[ev.RoomID] = m
	}
	prevPhase := m.Snapshot().Phase
	changed := m.Apply(ev)
	var snap jackpot.RoundSnapshot
	if changed {
		snap = m.Snapshot()
	}
	autobet := s.autobet
	s.mu.Unlock()

	if !changed {
		return
	}
	s.feed.Publish(FeedKindSnapshot, ev.RoomID, s.clk.Now(), snap)
	if autobet != nil && snap.Phase == jackpot.PhaseStarted && prevPhase != jackpot.PhaseStarted {
		autobet.OnRoundStarted(context.Background(), ev.RoomID, snap.RoundID, snap.Players)
	}
}

// Snapshot returns the current round snapshot for a room.
func (s *Service) Snapshot(roomID string) (jackpot.RoundSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[roomID]
	if !ok {
		return jackpot.RoundSnapshot{}, false
	}
	return m.Snapshot(), true
}

// Progress derives the countdown for a room at the corrected current time.
func (s *Service) Progress(roomID string) (jackpot.Progress, bool) {
	s.mu.Lock()
	m, ok := s.machines[roomID]
	s.mu.Unlock()
	if !ok {
		return jackpot.Progress{}, false
	}
	return m.Progress(s.clk.Now()), true
}

// RoomInfo is the listing view of one configured room.
type RoomInfo struct {
	RoomID       string        `json:"room_id"`
	Phase        jackpot.Phase `json:"phase"`
	RoundID      string        `json:"round_id,omitempty"`
	Players      int           `json:"players"`
	TotalAmount  int64         `json:"total_amount"`
	MinBetAmount int64         `json:"min_bet_amount"`
	MaxBetAmount int64         `json:"max_bet_amount"`
}

func (s *Service) Rooms() []RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RoomInfo, 0, len(s.configs))
	for id, cfg := range s.configs {
		info := RoomInfo{
			RoomID:       id,
			Phase:        jackpot.PhaseAvailable,
			MinBetAmount: cfg.MinBetAmount,
			MaxBetAmount: cfg.MaxBetAmount,
		}
		if m, ok := s.machines[id]; ok {
			snap := m.Snapshot()
			info.Phase = snap.Phase
			info.RoundID = snap.RoundID
			info.Players = len(snap.Players)
			info.TotalAmount = snap.TotalAmount
		}
		out = append(out, info)
	}
	return out
}

// StartTicker begins publishing 1 Hz progress views for a visible room. The
// tick is read-only: it derives and publishes, never mutates round state.
func (s *Service) StartTicker(roomID string) error {
	s.mu.Lock()
	if _, ok := s.configs[roomID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown room %q", roomID)
	}
	t, ok := s.tickers[roomID]
	if !ok {
		t = NewTicker(s.tickClk, time.Second)
		s.tickers[roomID] = t
	}
	s.mu.Unlock()

	t.Start(func() {
		if p, ok := s.Progress(roomID); ok {
			s.feed.Publish(FeedKindProgress, roomID, s.clk.Now(), p)
		}
	})
	return nil
}

func (s *Service) StopTicker(roomID string) {
	s.mu.Lock()
	t, ok := s.tickers[roomID]
	s.mu.Unlock()
	if ok {
		t.Stop()
	}
}

// Close stops all tickers and closes the feed.
func (s *Service) Close() {
	s.mu.Lock()
	tickers := make([]*Ticker, 0, len(s.tickers))
	for _, t := range s.tickers {
		tickers = append(tickers, t)
	}
	s.mu.Unlock()
	for _, t := range tickers {
		t.Stop()
	}
	s.feed.Close()
}
