package engine

import (
	"errors"
	"testing"
	"time"

	"cardclash/internal/battle"
)

func testSession() *battle.Session {
	return &battle.Session{
		BattleID:    "b1",
		Status:      battle.StatusInProgress,
		CurrentTurn: battle.TurnPlayer1,
		Field: battle.Field{Players: [2]battle.PlayerState{
			{PlayerID: "p1", HitPoints: 20, MaxHitPoints: 20},
			{PlayerID: "p2", HitPoints: 20, MaxHitPoints: 20},
		}},
	}
}

func withMonster(p *battle.PlayerState, cardID string, atk, def int) {
	p.Field = append(p.Field, battle.CardInPlay{
		Card:     battle.Card{CardID: cardID, Name: cardID, Attack: atk, Defense: def},
		Position: battle.PositionMonster,
	})
}

func hasKind(entries []battle.LogEntry, kind battle.EntryKind) bool {
	for _, e := range entries {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func findKind(t *testing.T, entries []battle.LogEntry, kind battle.EntryKind) battle.LogEntry {
	t.Helper()
	for _, e := range entries {
		if e.Kind == kind {
			return e
		}
	}
	t.Fatalf("expected a %s entry, got %v", kind, entries)
	return battle.LogEntry{}
}

func TestResolveAttack_OverflowDamage(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk12", 12, 2)
	withMonster(&s.Field.Players[1], "def5", 3, 5)

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasKind(entries, battle.EntryMonsterDestroyed) {
		t.Fatalf("expected defending monster to be destroyed")
	}
	of := findKind(t, entries, battle.EntryOverflowDamage)
	if of.Payload["damage"] != 7 {
		t.Fatalf("expected overflow damage 7, got %v", of.Payload["damage"])
	}
	if got := s.Field.Players[1].HitPoints; got != 13 {
		t.Fatalf("expected defender HP 13, got %d", got)
	}
	if len(s.Field.Players[1].Field) != 0 {
		t.Fatalf("expected destroyed monster removed from field")
	}
}

func TestResolveAttack_ShieldReducesOverflow(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk12", 12, 2)
	withMonster(&s.Field.Players[1], "def5", 3, 5)
	s.Field.Players[1].Effects = []battle.StatusEffect{{Kind: battle.EffectShield, Magnitude: 4, RemainingDuration: 2}}

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sa := findKind(t, entries, battle.EntryShieldAbsorb)
	if sa.Payload["absorbed"] != 4 {
		t.Fatalf("expected 4 absorbed, got %v", sa.Payload["absorbed"])
	}
	of := findKind(t, entries, battle.EntryOverflowDamage)
	if of.Payload["damage"] != 3 {
		t.Fatalf("expected overflow damage 3 after shield, got %v", of.Payload["damage"])
	}
	if got := s.Field.Players[1].HitPoints; got != 17 {
		t.Fatalf("expected defender HP 17, got %d", got)
	}
}

func TestResolveAttack_DoubleDamageConsumed(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk12", 12, 2)
	withMonster(&s.Field.Players[1], "def5", 3, 5)
	s.Field.Players[0].Effects = []battle.StatusEffect{{Kind: battle.EffectDouble, Magnitude: 1, RemainingDuration: 3}}

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dd := findKind(t, entries, battle.EntryDoubleDamage)
	if dd.Payload["damage"] != 14 {
		t.Fatalf("expected doubled damage 14, got %v", dd.Payload["damage"])
	}
	if got := s.Field.Players[1].HitPoints; got != 6 {
		t.Fatalf("expected defender HP 6, got %d", got)
	}
	if len(s.Field.Players[0].Effects) != 0 {
		t.Fatalf("expected double effect to be consumed")
	}
}

func TestResolveAttack_FrozenSkips(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk12", 12, 2)
	s.Field.Players[0].Effects = []battle.StatusEffect{{Kind: battle.EffectFreeze, Magnitude: 0, RemainingDuration: 2}}

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != battle.EntryFrozenSkip {
		t.Fatalf("expected a single FROZEN_SKIP entry, got %v", entries)
	}
	if got := s.Field.Players[1].HitPoints; got != 20 {
		t.Fatalf("expected no damage while frozen, got HP %d", got)
	}
}

func TestResolveAttack_DirectWhenFieldEmpty(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk8", 8, 1)

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	da := findKind(t, entries, battle.EntryDirectAttack)
	if da.Payload["damage"] != 8 {
		t.Fatalf("expected direct damage 8, got %v", da.Payload["damage"])
	}
	if got := s.Field.Players[1].HitPoints; got != 12 {
		t.Fatalf("expected defender HP 12, got %d", got)
	}
}

func TestResolveAttack_BlockedByEqualDefense(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk5", 5, 1)
	withMonster(&s.Field.Players[1], "def5", 1, 5)

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasKind(entries, battle.EntryAttackBlocked) {
		t.Fatalf("expected attack to be blocked")
	}
	if got := s.Field.Players[1].HitPoints; got != 20 {
		t.Fatalf("expected no player damage on a blocked attack, got HP %d", got)
	}
	if len(s.Field.Players[1].Field) != 1 {
		t.Fatalf("expected defending monster to survive")
	}
}

func TestResolveAttack_ReflectHitsAttacker(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk10", 10, 1)
	s.Field.Players[1].Effects = []battle.StatusEffect{{Kind: battle.EffectReflect, Magnitude: 50, RemainingDuration: 2}}

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rd := findKind(t, entries, battle.EntryReflectDamage)
	if rd.Payload["damage"] != 5 {
		t.Fatalf("expected 5 reflected, got %v", rd.Payload["damage"])
	}
	if got := s.Field.Players[0].HitPoints; got != 15 {
		t.Fatalf("expected attacker HP 15, got %d", got)
	}
	if got := s.Field.Players[1].HitPoints; got != 10 {
		t.Fatalf("expected defender HP 10, got %d", got)
	}
}

func TestResolveAttack_NoMonster(t *testing.T) {
	s := testSession()
	if _, err := ResolveAttack(s, time.Now()); !errors.Is(err, ErrNoMonsterToAttack) {
		t.Fatalf("expected ErrNoMonsterToAttack, got %v", err)
	}
}

func TestResolveAttack_TrapFreezeCancelsAttack(t *testing.T) {
	s := testSession()
	withMonster(&s.Field.Players[0], "atk10", 10, 1)
	s.Field.Players[1].Field = append(s.Field.Players[1].Field, battle.CardInPlay{
		Card: battle.Card{CardID: "trap1", Name: "Ice Trap", Trap: &battle.TrapEffect{
			Kind: battle.EffectFreeze, Magnitude: 0, Duration: 2,
		}},
		Position: battle.PositionTrap,
	})

	entries, err := ResolveAttack(s, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := findKind(t, entries, battle.EntryTrapTriggered)
	if tr.Payload["card_id"] != "trap1" {
		t.Fatalf("expected trap reveal in log, got %v", tr.Payload)
	}
	if !hasKind(entries, battle.EntryFrozenSkip) {
		t.Fatalf("expected attack cancelled by freeze trap")
	}
	if got := s.Field.Players[1].HitPoints; got != 20 {
		t.Fatalf("expected no damage, got HP %d", got)
	}
	if len(s.Field.Players[1].Field) != 0 {
		t.Fatalf("expected fired trap to leave the field")
	}
}

func TestResolvePlay_TrapStaysHidden(t *testing.T) {
	s := testSession()
	s.Field.Players[0].Hand = []battle.Card{{CardID: "c1", Name: "Viper", Attack: 4, Defense: 2}}

	entries, err := ResolvePlay(s, "c1", true, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := findKind(t, entries, battle.EntryTrapSet)
	if _, leaked := ts.Payload["card_id"]; leaked {
		t.Fatalf("trap set entry must not reveal the card, got %v", ts.Payload)
	}
	if len(s.Field.Players[0].Hand) != 0 {
		t.Fatalf("expected card removed from hand")
	}
}

func TestResolvePlay_CardNotInHand(t *testing.T) {
	s := testSession()
	if _, err := ResolvePlay(s, "nope", false, time.Now()); !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("expected ErrCardNotInHand, got %v", err)
	}
}

func TestResolveTurnStart_BurnThenExpiry(t *testing.T) {
	s := testSession()
	s.Field.Players[0].Effects = []battle.StatusEffect{{Kind: battle.EffectBurn, Magnitude: 3, RemainingDuration: 2}}

	entries := ResolveTurnStart(s, time.Now())
	bd := findKind(t, entries, battle.EntryBurnDamage)
	if bd.Payload["damage"] != 3 {
		t.Fatalf("expected burn 3, got %v", bd.Payload["damage"])
	}
	if got := s.Field.Players[0].HitPoints; got != 17 {
		t.Fatalf("expected HP 17 after burn, got %d", got)
	}

	entries = ResolveTurnStart(s, time.Now())
	if !hasKind(entries, battle.EntryEffectExpired) {
		t.Fatalf("expected burn to expire on the second tick")
	}
	if hasKind(entries, battle.EntryBurnDamage) {
		t.Fatalf("expired burn must not deal damage")
	}
	if len(s.Field.Players[0].Effects) != 0 {
		t.Fatalf("expected no effects left")
	}
}

func TestResolveTurnStart_HealCapsAtMax(t *testing.T) {
	s := testSession()
	s.Field.Players[0].HitPoints = 19
	s.Field.Players[0].Effects = []battle.StatusEffect{{Kind: battle.EffectHeal, Magnitude: 5, RemainingDuration: 2}}

	ResolveTurnStart(s, time.Now())
	if got := s.Field.Players[0].HitPoints; got != 20 {
		t.Fatalf("expected heal capped at max HP 20, got %d", got)
	}
}
