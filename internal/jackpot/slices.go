package jackpot

import "math"

// SliceBudget is the nominal number of wheel segments a round is divided
// into. Per-player counts are ceiled independently, so the produced total can
// exceed the budget; the wheel indexes whatever total comes out. The hard
// invariant is only that every non-zero bettor owns at least one slice.
const SliceBudget = 50

// AllocateSlices converts wagers into a fixed-budget weighted wheel layout.
// Pure and order-preserving: identical input yields identical output. Callers
// filter house entries first when allocating for display percentages.
func AllocateSlices(players []Bet) []Candidate {
	var total int64
	for _, p := range players {
		total += p.Amount()
	}
	if total <= 0 {
		return nil
	}

	out := make([]Candidate, 0, len(players))
	for _, p := range players {
		amount := p.Amount()
		if amount <= 0 {
			continue
		}
		weight := float64(amount) / float64(total)
		count := int(math.Ceil(weight * SliceBudget))
		if count < 1 {
			count = 1
		}
		out = append(out, Candidate{PlayerID: p.PlayerID, SliceCount: count})
	}
	return out
}
