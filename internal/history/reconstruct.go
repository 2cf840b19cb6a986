package history

import (
	"fmt"
	"time"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/jackpot"
)

// winnerTimeOffset backdates a reconstructed round's phase entry so the
// countdown renders "just finished" instead of a stale timer.
const winnerTimeOffset = 15 * time.Second

type Reconstructor struct {
	clk *clock.Synchronizer
}

func NewReconstructor(clk *clock.Synchronizer) *Reconstructor {
	return &Reconstructor{clk: clk}
}

// Reconstruct maps a fetched record into a rollend snapshot indistinguishable
// in shape from a live one. Deterministic: identical records yield identical
// players, percents, and slices. House wagers stay in the displayed total but
// are excluded from percentages and the wheel.
func (r *Reconstructor) Reconstruct(rec Record) (jackpot.RoundSnapshot, Verification, error) {
	if rec.RoundID == "" {
		return jackpot.RoundSnapshot{}, Verification{}, fmt.Errorf("record missing round id")
	}

	players := make([]jackpot.Bet, 0, len(rec.Players))
	for _, raw := range rec.Players {
		players = append(players, raw.toBet())
	}
	jackpot.ApplyPercents(players)

	snap := jackpot.RoundSnapshot{
		RoundID:        rec.RoundID,
		Source:         jackpot.SourceHistorical,
		Phase:          jackpot.PhaseRollEnd,
		PhaseEnteredAt: r.clk.Now().Add(-winnerTimeOffset),
		Players:        players,
		TotalAmount:    jackpot.PoolTotal(players),
		WinnerID:       rec.WinnerID,
		TicketID:       rec.TicketID,
		SignedString:   rec.SignedString,
		Slices:         jackpot.AllocateSlices(jackpot.FilterHouse(players)),
	}
	return snap, Verify(rec), nil
}
