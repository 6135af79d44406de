package engine

import (
	"errors"
	"time"

	"cardclash/internal/battle"
)

// The resolver is pure state-in, entries-out: it mutates the session's
// field in place and returns the log entries describing what happened,
// without touching sequence numbers, persistence or timers. Callers hold
// the per-battle lock.

var (
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrNoMonsterToAttack = errors.New("no monster on the field to attack with")
)

func entry(kind battle.EntryKind, actorID string, payload battle.Payload, now time.Time) battle.LogEntry {
	return battle.LogEntry{Kind: kind, ActorID: actorID, Payload: payload, LoggedAt: now}
}

// ResolvePlay moves a card from the active player's hand onto their field,
// face-up as a monster or face-down as a trap.
func ResolvePlay(s *battle.Session, cardID string, asTrap bool, now time.Time) ([]battle.LogEntry, error) {
	actor := &s.Field.Players[s.TurnIndex()]

	handIdx := -1
	for i := range actor.Hand {
		if actor.Hand[i].CardID == cardID {
			handIdx = i
			break
		}
	}
	if handIdx == -1 {
		return nil, ErrCardNotInHand
	}

	card := actor.Hand[handIdx]
	actor.Hand = append(actor.Hand[:handIdx], actor.Hand[handIdx+1:]...)

	pos := battle.PositionMonster
	kind := battle.EntryCardPlayed
	payload := battle.Payload{
		"card_id": card.CardID,
		"name":    card.Name,
		"attack":  card.Attack,
		"defense": card.Defense,
	}
	if asTrap {
		pos = battle.PositionTrap
		kind = battle.EntryTrapSet
		// Face-down: the log must not reveal the card's identity. The
		// reveal happens in the TRAP_TRIGGERED entry.
		payload = battle.Payload{"face_down": true}
	}
	actor.Field = append(actor.Field, battle.CardInPlay{Card: card, Position: pos})

	return []battle.LogEntry{entry(kind, actor.PlayerID, payload, now)}, nil
}

// ResolveAttack resolves the active player's attack against the opposing
// side. Effects apply in fixed priority order: FREEZE check, trap triggers,
// BOOST, SHIELD, base damage, REFLECT, OVERFLOW, DOUBLE. Each step emits
// its own entry so the causal chain is reconstructable from the log alone.
func ResolveAttack(s *battle.Session, now time.Time) ([]battle.LogEntry, error) {
	atkIdx := s.TurnIndex()
	attacker := &s.Field.Players[atkIdx]
	defender := &s.Field.Players[1-atkIdx]

	// FREEZE may cancel the action entirely. The action is still consumed:
	// a skip entry is logged and no damage is dealt.
	if hasEffect(attacker.Effects, battle.EffectFreeze) {
		return []battle.LogEntry{entry(battle.EntryFrozenSkip, attacker.PlayerID, battle.Payload{"reason": "attacker_frozen"}, now)}, nil
	}

	monIdx := strongestMonsterByAttack(attacker)
	if monIdx == -1 {
		return nil, ErrNoMonsterToAttack
	}
	monster := attacker.Field[monIdx]

	var entries []battle.LogEntry

	// Reactive traps fire before damage is finalized, seeing the
	// pre-resolution attack parameters. Effects they attach participate
	// in the pipeline below.
	entries = append(entries, triggerTraps(attacker, defender, monster, now)...)

	// A freeze trap cancels the attack after being revealed.
	if hasEffect(attacker.Effects, battle.EffectFreeze) {
		entries = append(entries, entry(battle.EntryFrozenSkip, attacker.PlayerID, battle.Payload{"reason": "frozen_by_trap"}, now))
		return entries, nil
	}

	// BOOST raises the outgoing attack value before damage calculation.
	incoming := monster.Attack
	if boost := totalMagnitude(attacker.Effects, battle.EffectBoost); boost > 0 {
		incoming += boost
		entries = append(entries, entry(battle.EntryBoostApplied, attacker.PlayerID, battle.Payload{
			"card_id":      monster.CardID,
			"boost":        boost,
			"attack_value": incoming,
		}, now))
	}

	// SHIELD absorbs incoming damage before it is applied.
	afterShield := incoming
	if shield := totalMagnitude(defender.Effects, battle.EffectShield); shield > 0 {
		absorbed := shield
		if absorbed > incoming {
			absorbed = incoming
		}
		afterShield = clampMin0(incoming - shield)
		entries = append(entries, entry(battle.EntryShieldAbsorb, defender.PlayerID, battle.Payload{
			"absorbed":  absorbed,
			"remaining": afterShield,
		}, now))
	}

	// Base damage resolution against the strongest defending monster, or
	// directly against the player when the field is empty.
	playerDamage := 0
	tgtIdx := strongestMonsterByDefense(defender)
	if tgtIdx == -1 {
		playerDamage = afterShield
		entries = append(entries, entry(battle.EntryDirectAttack, attacker.PlayerID, battle.Payload{
			"card_id": monster.CardID,
			"damage":  playerDamage,
		}, now))
	} else {
		target := defender.Field[tgtIdx]
		entries = append(entries, entry(battle.EntryAttack, attacker.PlayerID, battle.Payload{
			"card_id":        monster.CardID,
			"target_card_id": target.CardID,
			"attack_value":   afterShield,
			"target_defense": target.Defense,
		}, now))
		if afterShield > target.Defense {
			removeFromField(defender, tgtIdx)
			entries = append(entries, entry(battle.EntryMonsterDestroyed, attacker.PlayerID, battle.Payload{
				"card_id": target.CardID,
				"name":    target.Name,
			}, now))
			// OVERFLOW: the excess beyond what destroyed the card carries
			// over as direct damage to the owning player.
			playerDamage = afterShield - target.Defense
			entries = append(entries, entry(battle.EntryOverflowDamage, attacker.PlayerID, battle.Payload{
				"damage": playerDamage,
			}, now))
		} else {
			entries = append(entries, entry(battle.EntryAttackBlocked, defender.PlayerID, battle.Payload{
				"card_id": target.CardID,
			}, now))
		}
	}

	// REFLECT redirects a portion of the post-shield damage back to the
	// attacker. It is computed from the already-reduced value, never the
	// raw attack.
	if reflect := totalMagnitude(defender.Effects, battle.EffectReflect); reflect > 0 && afterShield > 0 {
		back := afterShield * reflect / 100
		if back > 0 {
			applyPlayerDamage(attacker, back)
			entries = append(entries, entry(battle.EntryReflectDamage, defender.PlayerID, battle.Payload{
				"damage":            back,
				"attacker_hp_after": attacker.HitPoints,
			}, now))
		}
	}

	// DOUBLE doubles the final computed damage for this one action and is
	// consumed afterwards.
	if playerDamage > 0 {
		if consumeEffect(&attacker.Effects, battle.EffectDouble) {
			playerDamage *= 2
			entries = append(entries, entry(battle.EntryDoubleDamage, attacker.PlayerID, battle.Payload{
				"damage": playerDamage,
			}, now))
		}
		applyPlayerDamage(defender, playerDamage)
	}

	return entries, nil
}

// triggerTraps fires every face-down trap on the defending side, oldest
// first. Offensive kinds attach to the attacker, defensive kinds to the
// trap's owner. Fired traps leave the field.
func triggerTraps(attacker, defender *battle.PlayerState, monster battle.CardInPlay, now time.Time) []battle.LogEntry {
	var entries []battle.LogEntry
	kept := defender.Field[:0]
	for _, cip := range defender.Field {
		if cip.Position != battle.PositionTrap {
			kept = append(kept, cip)
			continue
		}
		if cip.Trap == nil {
			// A card without a configured trap effect fizzles silently.
			continue
		}
		target := &defender.Effects
		targetID := defender.PlayerID
		switch cip.Trap.Kind {
		case battle.EffectFreeze, battle.EffectBurn:
			target = &attacker.Effects
			targetID = attacker.PlayerID
		}
		addEffect(target, cip.Trap.Kind, cip.Trap.Magnitude, cip.Trap.Duration, now)
		entries = append(entries, entry(battle.EntryTrapTriggered, defender.PlayerID, battle.Payload{
			"card_id":          cip.CardID,
			"name":             cip.Name,
			"effect":           string(cip.Trap.Kind),
			"magnitude":        cip.Trap.Magnitude,
			"duration":         cip.Trap.Duration,
			"target_player_id": targetID,
			"attacker_card_id": monster.CardID,
			"attack_value":     monster.Attack,
		}, now))
	}
	defender.Field = kept
	return entries
}

// ResolveTurnStart runs start-of-turn processing for the player who just
// became active: effect durations tick down, expired effects are removed,
// then BURN damage and HEAL are applied.
func ResolveTurnStart(s *battle.Session, now time.Time) []battle.LogEntry {
	idx := s.TurnIndex()
	if idx == -1 {
		return nil
	}
	p := &s.Field.Players[idx]
	var entries []battle.LogEntry

	p.Effects, entries = tickEffects(p.Effects, p.PlayerID, "", entries, now)
	for i := range p.Field {
		p.Field[i].Effects, entries = tickEffects(p.Field[i].Effects, p.PlayerID, p.Field[i].CardID, entries, now)
	}

	if burn := totalMagnitude(p.Effects, battle.EffectBurn); burn > 0 {
		applyPlayerDamage(p, burn)
		entries = append(entries, entry(battle.EntryBurnDamage, p.PlayerID, battle.Payload{
			"damage":   burn,
			"hp_after": p.HitPoints,
		}, now))
	}
	if heal := totalMagnitude(p.Effects, battle.EffectHeal); heal > 0 {
		applyPlayerHeal(p, heal)
		entries = append(entries, entry(battle.EntryHealApplied, p.PlayerID, battle.Payload{
			"amount":   heal,
			"hp_after": p.HitPoints,
		}, now))
	}
	return entries
}

// tickEffects decrements durations, keeps live effects and logs expiries.
func tickEffects(effects []battle.StatusEffect, playerID, cardID string, entries []battle.LogEntry, now time.Time) ([]battle.StatusEffect, []battle.LogEntry) {
	kept := effects[:0]
	for _, e := range effects {
		e.RemainingDuration--
		if e.RemainingDuration > 0 {
			kept = append(kept, e)
			continue
		}
		payload := battle.Payload{"effect": string(e.Kind)}
		if cardID != "" {
			payload["card_id"] = cardID
		}
		entries = append(entries, entry(battle.EntryEffectExpired, playerID, payload, now))
	}
	return kept, entries
}
