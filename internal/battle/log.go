package battle

import (
	"time"

	"gorm.io/gorm"
)

// EntryKind tags a battle log entry. Each resolution step emits its own
// kind so the full causal chain of an action is reconstructable in order.
type EntryKind string

const (
	EntryBattleStarted    EntryKind = "BATTLE_STARTED"
	EntryCardPlayed       EntryKind = "CARD_PLAYED"
	EntryTrapSet          EntryKind = "TRAP_SET"
	EntryAttack           EntryKind = "ATTACK"
	EntryDirectAttack     EntryKind = "DIRECT_ATTACK"
	EntryAttackBlocked    EntryKind = "ATTACK_BLOCKED"
	EntryFrozenSkip       EntryKind = "FROZEN_SKIP"
	EntryTrapTriggered    EntryKind = "TRAP_TRIGGERED"
	EntryShieldAbsorb     EntryKind = "SHIELD_ABSORB"
	EntryBoostApplied     EntryKind = "BOOST_APPLIED"
	EntryReflectDamage    EntryKind = "REFLECT_DAMAGE"
	EntryOverflowDamage   EntryKind = "OVERFLOW_DAMAGE"
	EntryDoubleDamage     EntryKind = "DOUBLE_DAMAGE"
	EntryMonsterDestroyed EntryKind = "MONSTER_DESTROYED"
	EntryBurnDamage       EntryKind = "BURN_DAMAGE"
	EntryHealApplied      EntryKind = "HEAL_APPLIED"
	EntryEffectExpired    EntryKind = "EFFECT_EXPIRED"
	EntryTurnEnded        EntryKind = "TURN_ENDED"
	EntryTurnTimeout      EntryKind = "TURN_TIMEOUT"
	EntryBattleFinished   EntryKind = "BATTLE_FINISHED"
	EntryBattleAbandoned  EntryKind = "BATTLE_ABANDONED"
)

// Payload carries the structured details of a log entry. It is stored as a
// JSON column and must be self-contained: clients reconstruct the combat
// narrative from the log alone, without re-deriving game logic.
type Payload map[string]any

// LogEntry is one immutable record of the per-battle append-only log.
// Sequence is assigned at append time, monotonically per battle, never
// reused; the (BattleID, Sequence) pair is unique.
type LogEntry struct {
	gorm.Model `json:"-"`
	BattleID   string    `json:"battle_id" gorm:"uniqueIndex:idx_battle_log_seq"`
	Sequence   uint64    `json:"sequence" gorm:"uniqueIndex:idx_battle_log_seq"`
	Kind       EntryKind `json:"kind"`
	ActorID    string    `json:"actor_id,omitempty"`
	Payload    Payload   `json:"payload" gorm:"serializer:json"`
	LoggedAt   time.Time `json:"logged_at"`
}

func (LogEntry) TableName() string { return "battle_log_entries" }
