package engine

import (
	"time"

	"cardclash/internal/battle"
)

// --- Status-effect helpers ---------------------------------------------

func hasEffect(effects []battle.StatusEffect, kind battle.EffectKind) bool {
	for i := range effects {
		if effects[i].Kind == kind {
			return true
		}
	}
	return false
}

// totalMagnitude sums the magnitudes of all active effects of one kind.
// Stacking same-kind effects is additive.
func totalMagnitude(effects []battle.StatusEffect, kind battle.EffectKind) int {
	total := 0
	for i := range effects {
		if effects[i].Kind == kind {
			total += effects[i].Magnitude
		}
	}
	return total
}

// consumeEffect removes the oldest effect of the given kind and reports
// whether one was present. Used for one-shot effects (DOUBLE).
func consumeEffect(effects *[]battle.StatusEffect, kind battle.EffectKind) bool {
	for i := range *effects {
		if (*effects)[i].Kind == kind {
			*effects = append((*effects)[:i], (*effects)[i+1:]...)
			return true
		}
	}
	return false
}

func addEffect(effects *[]battle.StatusEffect, kind battle.EffectKind, magnitude, duration int, now time.Time) {
	*effects = append(*effects, battle.StatusEffect{
		Kind:              kind,
		Magnitude:         magnitude,
		RemainingDuration: duration,
		AppliedAt:         now,
	})
}

// clampMin0 floors intermediate damage values at zero immediately so
// negative numbers never propagate into subsequent pipeline steps.
func clampMin0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// applyPlayerDamage reduces a player's hit points, clamped at zero.
func applyPlayerDamage(p *battle.PlayerState, dmg int) {
	p.HitPoints = clampMin0(p.HitPoints - clampMin0(dmg))
}

// applyPlayerHeal raises hit points, capped at the battle's starting value.
func applyPlayerHeal(p *battle.PlayerState, amount int) {
	p.HitPoints += clampMin0(amount)
	if p.HitPoints > p.MaxHitPoints {
		p.HitPoints = p.MaxHitPoints
	}
}

// --- Field helpers -----------------------------------------------------

// strongestMonsterByAttack returns the index of the face-up monster with
// the highest attack, or -1 when the player has none.
func strongestMonsterByAttack(p *battle.PlayerState) int {
	best := -1
	for i := range p.Field {
		if p.Field[i].Position != battle.PositionMonster {
			continue
		}
		if best == -1 || p.Field[i].Attack > p.Field[best].Attack {
			best = i
		}
	}
	return best
}

// strongestMonsterByDefense returns the index of the face-up monster with
// the highest defense, or -1 when the player has none. Ties keep the card
// placed earliest so target selection stays deterministic.
func strongestMonsterByDefense(p *battle.PlayerState) int {
	best := -1
	for i := range p.Field {
		if p.Field[i].Position != battle.PositionMonster {
			continue
		}
		if best == -1 || p.Field[i].Defense > p.Field[best].Defense {
			best = i
		}
	}
	return best
}

func removeFromField(p *battle.PlayerState, idx int) battle.CardInPlay {
	removed := p.Field[idx]
	p.Field = append(p.Field[:idx], p.Field[idx+1:]...)
	return removed
}
