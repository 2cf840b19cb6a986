package jackpot

import (
	"strconv"
	"strings"
)

// EventType names the push events the transport delivers per room. Unknown
// types are ignored for forward compatibility.
type EventType string

const (
	EventRoundCreated EventType = "roundCreated"
	EventRoundStarted EventType = "roundStarted"
	EventRoundRolling EventType = "roundRolling"
	EventRoundEnded   EventType = "roundEnded"
	EventBetPlaced    EventType = "betPlaced"
)

// Event is one inbound push event after envelope decoding. Payload fields are
// populated per type: Players on created/started, Bet on betPlaced, winner
// data on ended.
type Event struct {
	Type    EventType
	RoomID  string
	RoundID string

	Players      []Bet
	Bet          *Bet
	WinnerID     string
	TicketID     string
	SignedString string
}

// CompareRoundIDs orders round ids. The upstream game issues monotonically
// increasing numeric ids; lexical order is the fallback for opaque ids.
func CompareRoundIDs(a, b string) int {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
