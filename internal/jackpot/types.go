package jackpot

import "time"

// Phase is one discrete stage of a round's lifecycle. Rounds progress
// available -> created -> started -> rolling -> rollend and loop back to
// available when the next round is created.
type Phase string

const (
	PhaseAvailable Phase = "available"
	PhaseCreated   Phase = "created"
	PhaseStarted   Phase = "started"
	PhaseRolling   Phase = "rolling"
	PhaseRollEnd   Phase = "rollend"
)

// Source tags where a snapshot came from. Live and historical snapshots share
// one shape so downstream consumers never branch on origin.
type Source string

const (
	SourceLive       Source = "live"
	SourceHistorical Source = "historical"
)

type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
	RoleHouse  Role = "house"
)

// IsHouse reports whether the role is excluded from percentage math and slice
// allocation. House wagers still count toward the displayed pool total.
func (r Role) IsHouse() bool {
	return r == RoleAdmin || r == RoleHouse
}

type Item struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconRef string `json:"icon_ref,omitempty"`
	Price   int64  `json:"price"`
}

type Bet struct {
	PlayerID    string  `json:"player_id"`
	DisplayName string  `json:"display_name"`
	AvatarRef   string  `json:"avatar_ref,omitempty"`
	CashAmount  int64   `json:"cash_amount"`
	ItemAmount  int64   `json:"item_amount"`
	Items       []Item  `json:"items,omitempty"`
	Role        Role    `json:"role,omitempty"`
	Percent     float64 `json:"percent"`
}

func (b Bet) Amount() int64 {
	return b.CashAmount + b.ItemAmount
}

// Candidate is one wheel entry: SliceCount discrete segments owned by a
// player. See AllocateSlices.
type Candidate struct {
	PlayerID   string `json:"player_id"`
	SliceCount int    `json:"slice_count"`
}

// RoundSnapshot is the canonical unit passed between every component.
type RoundSnapshot struct {
	RoundID        string      `json:"round_id"`
	Source         Source      `json:"source"`
	Phase          Phase       `json:"phase"`
	PhaseEnteredAt time.Time   `json:"phase_entered_at"`
	Players        []Bet       `json:"players"`
	TotalAmount    int64       `json:"total_amount"`
	WinnerID       string      `json:"winner_id,omitempty"`
	Slices         []Candidate `json:"slices,omitempty"`
	TicketID       string      `json:"ticket_id,omitempty"`
	SignedString   string      `json:"signed_string,omitempty"`
}

// Clone returns a copy that shares no mutable state with the receiver.
func (s RoundSnapshot) Clone() RoundSnapshot {
	out := s
	if s.Players != nil {
		out.Players = make([]Bet, len(s.Players))
		copy(out.Players, s.Players)
		for i, b := range s.Players {
			if b.Items != nil {
				items := make([]Item, len(b.Items))
				copy(items, b.Items)
				out.Players[i].Items = items
			}
		}
	}
	if s.Slices != nil {
		out.Slices = make([]Candidate, len(s.Slices))
		copy(out.Slices, s.Slices)
	}
	return out
}

// FilterHouse returns the players that participate in percentage math and
// slice allocation, preserving order.
func FilterHouse(players []Bet) []Bet {
	out := make([]Bet, 0, len(players))
	for _, p := range players {
		if !p.Role.IsHouse() {
			out = append(out, p)
		}
	}
	return out
}

// PoolTotal sums all wagers including house entries.
func PoolTotal(players []Bet) int64 {
	var total int64
	for _, p := range players {
		total += p.Amount()
	}
	return total
}

// ApplyPercents recomputes each player's percent of the pool, excluding house
// wagers from the denominator. House entries read 0%.
func ApplyPercents(players []Bet) {
	var total int64
	for _, p := range players {
		if !p.Role.IsHouse() {
			total += p.Amount()
		}
	}
	for i := range players {
		if total <= 0 || players[i].Role.IsHouse() {
			players[i].Percent = 0
			continue
		}
		players[i].Percent = float64(players[i].Amount()) / float64(total) * 100
	}
}
