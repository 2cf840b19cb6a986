// Package history fetches finished rounds from the game API and rebuilds
// them into the same snapshot shape the live machines produce, so the wheel,
// countdown, and percentage math work unmodified on replayed data.
package history

import (
	"time"

	"jackpot-sync/internal/jackpot"
)

// RawBet is a wager as the server serializes it in history responses.
type RawBet struct {
	PlayerID    string    `json:"playerId"`
	UserName    string    `json:"userName"`
	Avatar      string    `json:"avatar,omitempty"`
	CashAmount  int64     `json:"cashAmount"`
	ItemAmount  int64     `json:"itemAmount"`
	Items       []RawItem `json:"items,omitempty"`
	Role        string    `json:"role,omitempty"`
}

type RawItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Price int64  `json:"price"`
}

// Record is one immutable finished-round document: outcome plus the fairness
// commitment. ServerSeed stays empty until the server rotates and reveals it.
type Record struct {
	RoundID        string    `json:"roundId"`
	Players        []RawBet  `json:"players"`
	WinnerID       string    `json:"winnerId"`
	TicketID       string    `json:"ticketId,omitempty"`
	SignedString   string    `json:"signedString,omitempty"`
	ClientSeed     string    `json:"clientSeed"`
	ServerSeedHash string    `json:"serverSeedHash"`
	ServerSeed     string    `json:"serverSeed,omitempty"`
	Nonce          int64     `json:"nonce"`
	EndedAt        time.Time `json:"endedAt"`
}

func (r RawBet) toBet() jackpot.Bet {
	bet := jackpot.Bet{
		PlayerID:    r.PlayerID,
		DisplayName: r.UserName,
		AvatarRef:   r.Avatar,
		CashAmount:  r.CashAmount,
		ItemAmount:  r.ItemAmount,
		Role:        jackpot.Role(r.Role),
	}
	if len(r.Items) > 0 {
		bet.Items = make([]jackpot.Item, len(r.Items))
		for i, it := range r.Items {
			bet.Items[i] = jackpot.Item{ID: it.ID, Name: it.Name, IconRef: it.Icon, Price: it.Price}
		}
	}
	return bet
}
