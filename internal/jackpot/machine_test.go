package jackpot

import (
	"reflect"
	"testing"
	"time"
)

func testMachine() (*RoundMachine, *time.Time) {
	now := time.Unix(5000, 0)
	cfg := RoomConfig{
		RoomID:       "small",
		PlayerLimit:  3,
		CountingTime: 40 * time.Second,
		RollingTime:  55 * time.Second,
		WinnerTime:   15 * time.Second,
	}
	m := NewRoundMachine(cfg, func() time.Time { return now })
	return m, &now
}

func TestMachineLifecycle(t *testing.T) {
	m, now := testMachine()

	if m.Snapshot().Phase != PhaseAvailable {
		t.Fatalf("initial phase = %s, want available", m.Snapshot().Phase)
	}

	if !m.Apply(Event{Type: EventRoundCreated, RoomID: "small", RoundID: "7"}) {
		t.Fatal("created event should mutate")
	}
	if !m.Apply(Event{Type: EventBetPlaced, RoomID: "small", RoundID: "7", Bet: &Bet{PlayerID: "p1", CashAmount: 100}}) {
		t.Fatal("bet should be accepted in created phase")
	}

	*now = now.Add(2 * time.Second)
	if !m.Apply(Event{Type: EventRoundStarted, RoomID: "small", RoundID: "7"}) {
		t.Fatal("started event should mutate")
	}
	snap := m.Snapshot()
	if snap.Phase != PhaseStarted || !snap.PhaseEnteredAt.Equal(*now) {
		t.Fatalf("started snapshot wrong: %+v", snap)
	}

	m.Apply(Event{Type: EventBetPlaced, RoomID: "small", RoundID: "7", Bet: &Bet{PlayerID: "p2", CashAmount: 300}})
	if got := m.Snapshot().TotalAmount; got != 400 {
		t.Fatalf("total = %d, want 400", got)
	}

	m.Apply(Event{Type: EventRoundRolling, RoomID: "small", RoundID: "7"})
	if m.Apply(Event{Type: EventBetPlaced, RoomID: "small", RoundID: "7", Bet: &Bet{PlayerID: "p3", CashAmount: 50}}) {
		t.Fatal("bet during rolling must be rejected")
	}

	m.Apply(Event{Type: EventRoundEnded, RoomID: "small", RoundID: "7", WinnerID: "p2", TicketID: "t-1"})
	snap = m.Snapshot()
	if snap.Phase != PhaseRollEnd || snap.WinnerID != "p2" {
		t.Fatalf("rollend snapshot wrong: %+v", snap)
	}
	if len(snap.Slices) != 2 {
		t.Fatalf("expected frozen slices for 2 bettors, got %+v", snap.Slices)
	}
}

func TestMachineRejectsStaleRound(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "10"})
	m.Apply(Event{Type: EventRoundStarted, RoundID: "10", Players: []Bet{{PlayerID: "p1", CashAmount: 100}}})
	before := m.Snapshot()

	if m.Apply(Event{Type: EventRoundEnded, RoundID: "9", WinnerID: "ghost"}) {
		t.Fatal("stale round event must not mutate")
	}
	if m.Apply(Event{Type: EventBetPlaced, RoundID: "9", Bet: &Bet{PlayerID: "late", CashAmount: 5}}) {
		t.Fatal("stale bet must not mutate")
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Fatalf("snapshot changed after stale events:\n%+v\n%+v", before, m.Snapshot())
	}
}

func TestMachineIgnoresUnknownAndMalformed(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "3"})
	before := m.Snapshot()

	if m.Apply(Event{Type: "confetti", RoundID: "3"}) {
		t.Fatal("unknown event type must be ignored")
	}
	if m.Apply(Event{Type: EventRoundStarted}) {
		t.Fatal("event without round id must be dropped")
	}
	if m.Apply(Event{Type: EventBetPlaced, RoundID: "3"}) {
		t.Fatal("bet event without payload must be dropped")
	}
	if m.Apply(Event{Type: EventRoundEnded, RoundID: "3"}) {
		t.Fatal("ended event without winner must be dropped")
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Fatal("malformed events must leave the snapshot intact")
	}

	// Room must still process good events afterwards.
	if !m.Apply(Event{Type: EventRoundStarted, RoundID: "3"}) {
		t.Fatal("machine wedged after malformed events")
	}
}

func TestMachineDuplicateStartedIsNoop(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "4"})
	if !m.Apply(Event{Type: EventRoundStarted, RoundID: "4"}) {
		t.Fatal("first started should mutate")
	}
	if m.Apply(Event{Type: EventRoundStarted, RoundID: "4"}) {
		t.Fatal("duplicate started for same round must be a no-op")
	}

	m.Apply(Event{Type: EventRoundRolling, RoundID: "4"})
	if m.Apply(Event{Type: EventRoundStarted, RoundID: "4"}) {
		t.Fatal("late started must not rewind a rolling round")
	}
	if m.Snapshot().Phase != PhaseRolling {
		t.Fatalf("phase = %s, want rolling", m.Snapshot().Phase)
	}
}

func TestMachineAdoptsNewerRoundOnMissedCreated(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "5"})
	m.Apply(Event{Type: EventRoundEnded, RoundID: "5", WinnerID: "w", Players: []Bet{{PlayerID: "w", CashAmount: 10}}})

	// Reconnect skipped round 6's created event entirely.
	if !m.Apply(Event{Type: EventRoundStarted, RoundID: "6", Players: []Bet{{PlayerID: "p9", CashAmount: 70}}}) {
		t.Fatal("newer round started must be adopted")
	}
	snap := m.Snapshot()
	if snap.RoundID != "6" || snap.WinnerID != "" || snap.Slices != nil {
		t.Fatalf("round 5 leftovers in round 6 snapshot: %+v", snap)
	}
}

func TestMachineMergesRepeatBets(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "8"})
	m.Apply(Event{Type: EventBetPlaced, RoundID: "8", Bet: &Bet{PlayerID: "p1", CashAmount: 100}})
	m.Apply(Event{Type: EventBetPlaced, RoundID: "8", Bet: &Bet{PlayerID: "p1", CashAmount: 150, ItemAmount: 50}})

	snap := m.Snapshot()
	if len(snap.Players) != 1 {
		t.Fatalf("expected merged bet, got %d players", len(snap.Players))
	}
	if snap.Players[0].Amount() != 300 || snap.TotalAmount != 300 {
		t.Fatalf("merged amounts wrong: %+v total=%d", snap.Players[0], snap.TotalAmount)
	}
}

func TestMachinePlayerLimit(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "9"})
	for i, id := range []string{"a", "b", "c"} {
		if !m.Apply(Event{Type: EventBetPlaced, RoundID: "9", Bet: &Bet{PlayerID: id, CashAmount: int64(10 * (i + 1))}}) {
			t.Fatalf("bet %s should be accepted", id)
		}
	}
	if m.Apply(Event{Type: EventBetPlaced, RoundID: "9", Bet: &Bet{PlayerID: "d", CashAmount: 40}}) {
		t.Fatal("bet beyond player limit must be dropped")
	}
}

func TestMachineSnapshotIsolation(t *testing.T) {
	m, _ := testMachine()
	m.Apply(Event{Type: EventRoundCreated, RoundID: "11"})
	m.Apply(Event{Type: EventBetPlaced, RoundID: "11", Bet: &Bet{PlayerID: "p1", CashAmount: 100, Items: []Item{{ID: "knife", Price: 100}}}})

	snap := m.Snapshot()
	snap.Players[0].CashAmount = 999999
	snap.Players[0].Items[0].Price = 0

	fresh := m.Snapshot()
	if fresh.Players[0].CashAmount != 100 || fresh.Players[0].Items[0].Price != 100 {
		t.Fatalf("snapshot mutation leaked into machine: %+v", fresh.Players[0])
	}
}

func TestCompareRoundIDs(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"9", "10", -1},
		{"10", "9", 1},
		{"10", "10", 0},
		{"01HX0", "01HX1", -1},
	}
	for _, c := range cases {
		if got := CompareRoundIDs(c.a, c.b); got != c.want {
			t.Fatalf("CompareRoundIDs(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
