// Package ws connects to the game server's push feed over a websocket,
// translates wire frames into round events, and carries wagers back upstream.
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"jackpot-sync/internal/jackpot"
)

// Frame is the wire envelope. Type selects the payload shape; roomId scopes
// round events to one room.
type Frame struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	frameWelcome = "welcome"
	framePing    = "ping"
)

// WelcomePayload arrives once per connection and carries the server's clock.
type WelcomePayload struct {
	ServerTime time.Time `json:"serverTime"`
}

type roundPayload struct {
	RoundID      string    `json:"roundId"`
	Players      []wireBet `json:"players,omitempty"`
	Bet          *wireBet  `json:"bet,omitempty"`
	WinnerID     string    `json:"winnerId,omitempty"`
	TicketID     string    `json:"ticketId,omitempty"`
	SignedString string    `json:"signedString,omitempty"`
}

type wireBet struct {
	PlayerID   string     `json:"playerId"`
	UserName   string     `json:"userName"`
	Avatar     string     `json:"avatar,omitempty"`
	CashAmount int64      `json:"cashAmount"`
	ItemAmount int64      `json:"itemAmount"`
	Items      []wireItem `json:"items,omitempty"`
	Role       string     `json:"role,omitempty"`
}

type wireItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Price int64  `json:"price"`
}

// wagerFrame is the outbound wager message. RequestID deduplicates retries
// server-side.
type wagerFrame struct {
	Type       string         `json:"type"`
	RoomID     string         `json:"roomId"`
	RequestID  string         `json:"requestId"`
	CashAmount int64          `json:"cashAmount"`
	Items      []outboundItem `json:"items,omitempty"`
}

type outboundItem struct {
	ID string `json:"id"`
}

var roundEventTypes = map[string]jackpot.EventType{
	"roundCreated": jackpot.EventRoundCreated,
	"roundStarted": jackpot.EventRoundStarted,
	"roundRolling": jackpot.EventRoundRolling,
	"roundEnded":   jackpot.EventRoundEnded,
	"betPlaced":    jackpot.EventBetPlaced,
}

// DecodeEvent maps a round frame into an engine event. Frames with types the
// engine does not know return ok=false so callers can skip them without
// treating that as a protocol error.
func DecodeEvent(f Frame) (jackpot.Event, bool, error) {
	typ, ok := roundEventTypes[f.Type]
	if !ok {
		return jackpot.Event{}, false, nil
	}
	var p roundPayload
	if len(f.Payload) > 0 {
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return jackpot.Event{}, false, fmt.Errorf("decode %s payload: %w", f.Type, err)
		}
	}
	ev := jackpot.Event{
		Type:         typ,
		RoomID:       f.RoomID,
		RoundID:      p.RoundID,
		WinnerID:     p.WinnerID,
		TicketID:     p.TicketID,
		SignedString: p.SignedString,
	}
	if len(p.Players) > 0 {
		ev.Players = make([]jackpot.Bet, len(p.Players))
		for i, w := range p.Players {
			ev.Players[i] = w.toBet()
		}
	}
	if p.Bet != nil {
		bet := p.Bet.toBet()
		ev.Bet = &bet
	}
	return ev, true, nil
}

func (w wireBet) toBet() jackpot.Bet {
	bet := jackpot.Bet{
		PlayerID:    w.PlayerID,
		DisplayName: w.UserName,
		AvatarRef:   w.Avatar,
		CashAmount:  w.CashAmount,
		ItemAmount:  w.ItemAmount,
		Role:        jackpot.Role(w.Role),
	}
	if len(w.Items) > 0 {
		bet.Items = make([]jackpot.Item, len(w.Items))
		for i, it := range w.Items {
			bet.Items[i] = jackpot.Item{ID: it.ID, Name: it.Name, IconRef: it.Icon, Price: it.Price}
		}
	}
	return bet
}
