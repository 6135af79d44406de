package battlelog

import (
	"encoding/json"
	"testing"

	"cardclash/internal/battle"
)

func TestNormalizeLegacy_Attack(t *testing.T) {
	raw := json.RawMessage(`{"action":"attack","player":"p1","card":"c1","target":"c2","damage":7,"ts":1700000000}`)
	e, err := NormalizeLegacy(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Kind != battle.EntryAttack || e.ActorID != "p1" {
		t.Fatalf("bad mapping: %+v", e)
	}
	if e.Payload["card_id"] != "c1" || e.Payload["target_card_id"] != "c2" {
		t.Fatalf("expected card references preserved, got %v", e.Payload)
	}
	if e.Payload["attack_value"] != 7 {
		t.Fatalf("expected attack_value 7, got %v", e.Payload["attack_value"])
	}
	if e.LoggedAt.Unix() != 1700000000 {
		t.Fatalf("expected timestamp from ts, got %v", e.LoggedAt)
	}
}

func TestNormalizeLegacy_TrapStaysFaceDown(t *testing.T) {
	e, err := NormalizeLegacy(json.RawMessage(`{"action":"set_trap","player":"p2","card":"c9"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Kind != battle.EntryTrapSet {
		t.Fatalf("expected TRAP_SET, got %s", e.Kind)
	}
	if _, leaked := e.Payload["card_id"]; leaked {
		t.Fatalf("legacy trap record must stay hidden, got %v", e.Payload)
	}
}

func TestNormalizeLegacy_UnknownAction(t *testing.T) {
	if _, err := NormalizeLegacy(json.RawMessage(`{"action":"dance"}`)); err == nil {
		t.Fatalf("expected error for unknown action")
	}
	if _, err := NormalizeLegacy(json.RawMessage(`not json`)); err == nil {
		t.Fatalf("expected error for malformed record")
	}
}
