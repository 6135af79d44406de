package battlelog

import (
	"encoding/json"
	"fmt"
	"time"

	"cardclash/internal/battle"
)

// Historical data contains two incompatible entry shapes: an older
// "play/attack" record and the current typed-event record. The resolver
// only ever produces the canonical shape; this read-only adapter maps
// legacy records into it for display. It never writes anything back.

// legacyRecord is the old wire shape: a free-form action string with a
// handful of optional fields.
type legacyRecord struct {
	Action string `json:"action"`
	Player string `json:"player"`
	Card   string `json:"card"`
	Target string `json:"target"`
	Damage *int   `json:"damage"`
	TS     int64  `json:"ts"`
}

// NormalizeLegacy converts a legacy-shaped JSON record into a canonical
// LogEntry. Sequence and BattleID are left for the caller, which knows the
// record's position in the stored history.
func NormalizeLegacy(raw json.RawMessage) (battle.LogEntry, error) {
	var rec legacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return battle.LogEntry{}, fmt.Errorf("malformed legacy log record: %w", err)
	}

	out := battle.LogEntry{
		ActorID: rec.Player,
		Payload: battle.Payload{},
	}
	if rec.TS > 0 {
		out.LoggedAt = time.Unix(rec.TS, 0).UTC()
	}

	switch rec.Action {
	case "play":
		out.Kind = battle.EntryCardPlayed
		out.Payload["card_id"] = rec.Card
	case "set_trap":
		out.Kind = battle.EntryTrapSet
		out.Payload["face_down"] = true
	case "attack":
		out.Kind = battle.EntryAttack
		out.Payload["card_id"] = rec.Card
		if rec.Target != "" {
			out.Payload["target_card_id"] = rec.Target
		}
		if rec.Damage != nil {
			out.Payload["attack_value"] = *rec.Damage
		}
	case "direct_attack":
		out.Kind = battle.EntryDirectAttack
		out.Payload["card_id"] = rec.Card
		if rec.Damage != nil {
			out.Payload["damage"] = *rec.Damage
		}
	case "end_turn":
		out.Kind = battle.EntryTurnEnded
	case "timeout":
		out.Kind = battle.EntryTurnTimeout
	default:
		return battle.LogEntry{}, fmt.Errorf("unknown legacy action %q", rec.Action)
	}
	return out, nil
}
