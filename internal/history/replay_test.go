package history

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"jackpot-sync/internal/clock"
	"jackpot-sync/internal/jackpot"
)

func finishedSnapshot() jackpot.RoundSnapshot {
	return jackpot.RoundSnapshot{
		RoundID:  "55",
		Source:   jackpot.SourceHistorical,
		Phase:    jackpot.PhaseRollEnd,
		WinnerID: "p1",
		Players: []jackpot.Bet{
			{PlayerID: "p1", CashAmount: 100},
			{PlayerID: "p2", CashAmount: 100},
		},
		Slices: []jackpot.Candidate{{PlayerID: "p1", SliceCount: 25}, {PlayerID: "p2", SliceCount: 25}},
	}
}

func TestReplayerTransitions(t *testing.T) {
	fake := clockwork.NewFakeClock()
	rep := NewReplayer(clock.NewSynchronizer(fake), fake, 10*time.Second)

	var published []jackpot.RoundSnapshot
	rolling, err := rep.Start(finishedSnapshot(), func(s jackpot.RoundSnapshot) {
		published = append(published, s)
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if rolling.Phase != jackpot.PhaseRolling {
		t.Fatalf("phase = %q, want rolling", rolling.Phase)
	}
	if len(published) != 1 || published[0].Phase != jackpot.PhaseRolling {
		t.Fatalf("rolling view not published immediately: %+v", published)
	}

	fake.Advance(10 * time.Second)
	if len(published) != 2 {
		t.Fatalf("settle-back not published, got %d views", len(published))
	}
	settled := published[1]
	if settled.Phase != jackpot.PhaseRollEnd {
		t.Fatalf("settled phase = %q, want rollend", settled.Phase)
	}
	if settled.WinnerID != "p1" {
		t.Fatalf("replay changed the winner: %q", settled.WinnerID)
	}
	if len(settled.Slices) != 2 {
		t.Fatalf("replay changed the wheel: %+v", settled.Slices)
	}
}

func TestReplayerSettleNotEarly(t *testing.T) {
	fake := clockwork.NewFakeClock()
	rep := NewReplayer(clock.NewSynchronizer(fake), fake, 10*time.Second)

	var published []jackpot.RoundSnapshot
	if _, err := rep.Start(finishedSnapshot(), func(s jackpot.RoundSnapshot) {
		published = append(published, s)
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fake.Advance(9 * time.Second)
	if len(published) != 1 {
		t.Fatalf("settled before roll window elapsed")
	}
}

func TestReplayerRejectsUnfinishedRound(t *testing.T) {
	fake := clockwork.NewFakeClock()
	rep := NewReplayer(clock.NewSynchronizer(fake), fake, 0)

	snap := finishedSnapshot()
	snap.Phase = jackpot.PhaseStarted
	if _, err := rep.Start(snap, func(jackpot.RoundSnapshot) {}); err == nil {
		t.Fatalf("expected error for unfinished round")
	}

	snap = finishedSnapshot()
	snap.WinnerID = ""
	if _, err := rep.Start(snap, func(jackpot.RoundSnapshot) {}); err == nil {
		t.Fatalf("expected error for round without winner")
	}
}

func TestReplayerIsolatesPublishedCopies(t *testing.T) {
	fake := clockwork.NewFakeClock()
	rep := NewReplayer(clock.NewSynchronizer(fake), fake, time.Second)

	var published []jackpot.RoundSnapshot
	rolling, err := rep.Start(finishedSnapshot(), func(s jackpot.RoundSnapshot) {
		published = append(published, s)
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	rolling.Players[0].CashAmount = 999
	fake.Advance(time.Second)
	if published[1].Players[0].CashAmount != 100 {
		t.Fatalf("settled view shares memory with rolling view")
	}
}
