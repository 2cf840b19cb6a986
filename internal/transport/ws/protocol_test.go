package ws

import (
	"encoding/json"
	"testing"

	"jackpot-sync/internal/jackpot"
)

func TestDecodeEventRoundCreated(t *testing.T) {
	frame := Frame{
		Type:   "roundCreated",
		RoomID: "room-1",
		Payload: json.RawMessage(`{
			"roundId": "42",
			"players": [
				{"playerId":"p1","userName":"alice","cashAmount":300,
				 "items":[{"id":"knife","name":"Knife","price":120}]}
			]
		}`),
	}
	ev, ok, err := DecodeEvent(frame)
	if err != nil || !ok {
		t.Fatalf("DecodeEvent: ok=%v err=%v", ok, err)
	}
	if ev.Type != jackpot.EventRoundCreated || ev.RoomID != "room-1" || ev.RoundID != "42" {
		t.Fatalf("envelope fields wrong: %+v", ev)
	}
	if len(ev.Players) != 1 || ev.Players[0].DisplayName != "alice" {
		t.Fatalf("players not mapped: %+v", ev.Players)
	}
	if len(ev.Players[0].Items) != 1 || ev.Players[0].Items[0].Price != 120 {
		t.Fatalf("items not mapped: %+v", ev.Players[0].Items)
	}
}

func TestDecodeEventBetPlaced(t *testing.T) {
	frame := Frame{
		Type:    "betPlaced",
		RoomID:  "room-1",
		Payload: json.RawMessage(`{"roundId":"42","bet":{"playerId":"p2","cashAmount":50}}`),
	}
	ev, ok, err := DecodeEvent(frame)
	if err != nil || !ok {
		t.Fatalf("DecodeEvent: ok=%v err=%v", ok, err)
	}
	if ev.Bet == nil || ev.Bet.PlayerID != "p2" || ev.Bet.CashAmount != 50 {
		t.Fatalf("bet not mapped: %+v", ev.Bet)
	}
}

func TestDecodeEventRoundEnded(t *testing.T) {
	frame := Frame{
		Type:    "roundEnded",
		RoomID:  "room-1",
		Payload: json.RawMessage(`{"roundId":"42","winnerId":"p1","ticketId":"t-9","signedString":"sig"}`),
	}
	ev, ok, err := DecodeEvent(frame)
	if err != nil || !ok {
		t.Fatalf("DecodeEvent: ok=%v err=%v", ok, err)
	}
	if ev.WinnerID != "p1" || ev.TicketID != "t-9" || ev.SignedString != "sig" {
		t.Fatalf("winner fields wrong: %+v", ev)
	}
}

func TestDecodeEventUnknownType(t *testing.T) {
	_, ok, err := DecodeEvent(Frame{Type: "somethingNew"})
	if err != nil {
		t.Fatalf("unknown type must not error: %v", err)
	}
	if ok {
		t.Fatalf("unknown type must report ok=false")
	}
}

func TestDecodeEventMalformedPayload(t *testing.T) {
	_, ok, err := DecodeEvent(Frame{Type: "roundCreated", Payload: json.RawMessage(`{`)})
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if ok {
		t.Fatalf("malformed payload must report ok=false")
	}
}
