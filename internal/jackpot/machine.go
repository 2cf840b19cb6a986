package jackpot

import (
	"time"

	"github.com/rs/zerolog/log"
)

// RoundMachine tracks one room's round lifecycle. It is not goroutine-safe;
// the owning service serializes Apply calls per room.
type RoundMachine struct {
	cfg RoomConfig
	now func() time.Time

	snap      RoundSnapshot
	accepting bool
}

func NewRoundMachine(cfg RoomConfig, now func() time.Time) *RoundMachine {
	return &RoundMachine{
		cfg: cfg,
		now: now,
		snap: RoundSnapshot{
			Source: SourceLive,
			Phase:  PhaseAvailable,
		},
	}
}

func (m *RoundMachine) RoomID() string {
	return m.cfg.RoomID
}

func (m *RoundMachine) Config() RoomConfig {
	return m.cfg
}

// Snapshot returns a copy of the current round state.
func (m *RoundMachine) Snapshot() RoundSnapshot {
	return m.snap.Clone()
}

// Progress derives the countdown view for the current snapshot at the given
// corrected time.
func (m *RoundMachine) Progress(now time.Time) Progress {
	return ComputeProgress(m.snap.Phase, m.snap.PhaseEnteredAt, now, m.cfg)
}

// Apply consumes one inbound event and reports whether the snapshot changed.
// Malformed events are logged and dropped; stale and unknown events are
// dropped silently. Apply never panics on bad payloads, so one bad event
// cannot wedge the room.
func (m *RoundMachine) Apply(ev Event) bool {
	switch ev.Type {
	case EventRoundCreated, EventRoundStarted, EventRoundRolling, EventRoundEnded, EventBetPlaced:
	default:
		return false
	}

	if ev.RoundID == "" {
		log.Warn().Str("room", m.cfg.RoomID).Str("type", string(ev.Type)).Msg("event missing round id, dropped")
		return false
	}
	if m.snap.RoundID != "" && CompareRoundIDs(ev.RoundID, m.snap.RoundID) < 0 {
		// Expected after reconnect; the transport replays old events.
		log.Debug().Str("room", m.cfg.RoomID).Str("round", ev.RoundID).Str("current", m.snap.RoundID).Msg("stale round event dropped")
		return false
	}

	switch ev.Type {
	case EventRoundCreated:
		return m.applyCreated(ev)
	case EventRoundStarted:
		return m.applyStarted(ev)
	case EventRoundRolling:
		return m.applyRolling(ev)
	case EventRoundEnded:
		return m.applyEnded(ev)
	case EventBetPlaced:
		return m.applyBet(ev)
	}
	return false
}

func (m *RoundMachine) applyCreated(ev Event) bool {
	if ev.RoundID == m.snap.RoundID {
		return false
	}
	m.snap = RoundSnapshot{
		RoundID:        ev.RoundID,
		Source:         SourceLive,
		Phase:          PhaseCreated,
		PhaseEnteredAt: m.now(),
		Players:        nil,
	}
	if len(ev.Players) > 0 {
		m.setPlayers(ev.Players)
	}
	m.accepting = true
	return true
}

func (m *RoundMachine) applyStarted(ev Event) bool {
	if ev.RoundID == m.snap.RoundID && phaseRank(m.snap.Phase) >= phaseRank(PhaseStarted) {
		// Duplicate or late delivery, e.g. after reconnect. Never rewind.
		return false
	}
	if ev.RoundID != m.snap.RoundID {
		// Missed the created event; adopt the newer round wholesale.
		m.snap = RoundSnapshot{RoundID: ev.RoundID, Source: SourceLive}
	}
	m.snap.Phase = PhaseStarted
	m.snap.PhaseEnteredAt = m.now()
	if len(ev.Players) > 0 {
		m.setPlayers(ev.Players)
	}
	m.accepting = true
	return true
}

func (m *RoundMachine) applyRolling(ev Event) bool {
	if ev.RoundID != m.snap.RoundID {
		m.snap = RoundSnapshot{RoundID: ev.RoundID, Source: SourceLive}
	} else if phaseRank(m.snap.Phase) >= phaseRank(PhaseRolling) {
		return false
	}
	m.snap.Phase = PhaseRolling
	m.snap.PhaseEnteredAt = m.now()
	m.accepting = false
	return true
}

func (m *RoundMachine) applyEnded(ev Event) bool {
	if ev.WinnerID == "" {
		log.Warn().Str("room", m.cfg.RoomID).Str("round", ev.RoundID).Msg("round ended without winner, dropped")
		return false
	}
	if ev.RoundID != m.snap.RoundID {
		m.snap = RoundSnapshot{RoundID: ev.RoundID, Source: SourceLive}
	} else if m.snap.Phase == PhaseRollEnd {
		return false
	}
	if len(ev.Players) > 0 {
		m.setPlayers(ev.Players)
	}
	m.snap.Phase = PhaseRollEnd
	m.snap.PhaseEnteredAt = m.now()
	m.snap.WinnerID = ev.WinnerID
	m.snap.TicketID = ev.TicketID
	m.snap.SignedString = ev.SignedString
	// Frozen here, once; the wheel animation indexes this exact layout.
	m.snap.Slices = AllocateSlices(FilterHouse(m.snap.Players))
	m.accepting = false
	return true
}

func (m *RoundMachine) applyBet(ev Event) bool {
	if ev.Bet == nil || ev.Bet.PlayerID == "" {
		log.Warn().Str("room", m.cfg.RoomID).Str("round", ev.RoundID).Msg("bet event missing bet payload, dropped")
		return false
	}
	if !m.accepting || ev.RoundID != m.snap.RoundID {
		return false
	}
	switch m.snap.Phase {
	case PhaseCreated, PhaseStarted:
	default:
		return false
	}

	bet := *ev.Bet
	merged := false
	for i := range m.snap.Players {
		if m.snap.Players[i].PlayerID == bet.PlayerID {
			m.snap.Players[i].CashAmount += bet.CashAmount
			m.snap.Players[i].ItemAmount += bet.ItemAmount
			m.snap.Players[i].Items = append(m.snap.Players[i].Items, bet.Items...)
			merged = true
			break
		}
	}
	if !merged {
		if m.cfg.PlayerLimit > 0 && len(m.snap.Players) >= m.cfg.PlayerLimit {
			log.Warn().Str("room", m.cfg.RoomID).Str("player", bet.PlayerID).Msg("player limit reached, bet dropped")
			return false
		}
		m.snap.Players = append(m.snap.Players, bet)
	}
	m.refreshTotals()
	return true
}

func phaseRank(p Phase) int {
	switch p {
	case PhaseCreated:
		return 1
	case PhaseStarted:
		return 2
	case PhaseRolling:
		return 3
	case PhaseRollEnd:
		return 4
	default:
		return 0
	}
}

func (m *RoundMachine) setPlayers(players []Bet) {
	m.snap.Players = make([]Bet, len(players))
	copy(m.snap.Players, players)
	m.refreshTotals()
}

func (m *RoundMachine) refreshTotals() {
	m.snap.TotalAmount = PoolTotal(m.snap.Players)
	ApplyPercents(m.snap.Players)
}
