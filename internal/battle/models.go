package battle

import (
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of a battle session.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusAbandoned  Status = "abandoned"
)

// TurnOwner identifies which seat currently holds the turn.
type TurnOwner string

const (
	TurnNone    TurnOwner = ""
	TurnPlayer1 TurnOwner = "player1"
	TurnPlayer2 TurnOwner = "player2"
)

// Other returns the opposing seat. TurnNone maps to itself.
func (t TurnOwner) Other() TurnOwner {
	switch t {
	case TurnPlayer1:
		return TurnPlayer2
	case TurnPlayer2:
		return TurnPlayer1
	}
	return TurnNone
}

// Position is how a card sits on the field: face-up monster or face-down trap.
type Position string

const (
	PositionMonster Position = "monster"
	PositionTrap    Position = "trap"
)

// EffectKind enumerates the timed status effects the engine understands.
type EffectKind string

const (
	EffectBurn    EffectKind = "burn"
	EffectFreeze  EffectKind = "freeze"
	EffectShield  EffectKind = "shield"
	EffectBoost   EffectKind = "boost"
	EffectHeal    EffectKind = "heal"
	EffectReflect EffectKind = "reflect"
	EffectDouble  EffectKind = "double"
)

// StatusEffect is a timed modifier attached to a card or a player.
// RemainingDuration is decremented once at the carrier owner's turn start
// and the effect is removed when it reaches zero (or the carrier leaves play).
type StatusEffect struct {
	Kind              EffectKind `json:"kind"`
	Magnitude         int        `json:"magnitude"`
	RemainingDuration int        `json:"remaining_duration"`
	AppliedAt         time.Time  `json:"applied_at"`
}

// TrapEffect is the configured reactive effect of a card when set face-down.
// Kind decides the target: offensive kinds (freeze, burn) hit the attacker,
// everything else attaches to the trap's owner.
type TrapEffect struct {
	Kind      EffectKind `json:"kind"`
	Magnitude int        `json:"magnitude"`
	Duration  int        `json:"duration"`
}

// Card is a catalog card. Stats come from the server config file
// (cardclash_config.json), which is the single source of truth.
type Card struct {
	CardID  string      `json:"card_id"`
	Name    string      `json:"name"`
	Attack  int         `json:"attack"`
	Defense int         `json:"defense"`
	Trap    *TrapEffect `json:"trap,omitempty"`
}

// Deck is a named list of catalog card IDs, defined in config.
type Deck struct {
	DeckID  string   `json:"deck_id"`
	Name    string   `json:"name"`
	CardIDs []string `json:"card_ids"`
}

// CardInPlay is a card placed on a player's field.
type CardInPlay struct {
	Card
	Position Position       `json:"position"`
	Effects  []StatusEffect `json:"effects,omitempty"`
}

// PlayerState holds one participant's in-battle state. It is owned by the
// session's Field and only mutated through the engine.
type PlayerState struct {
	PlayerID            string         `json:"player_id"`
	DeckID              string         `json:"deck_id"`
	HitPoints           int            `json:"hit_points"`
	MaxHitPoints        int            `json:"max_hit_points"`
	Hand                []Card         `json:"hand"`
	Field               []CardInPlay   `json:"field"`
	Effects             []StatusEffect `json:"effects,omitempty"`
	ConsecutiveTimeouts int            `json:"consecutive_timeouts"`
}

// Field is the complete combat state of a battle. Index 0 is player1.
type Field struct {
	Players [2]PlayerState `json:"players"`
}

// Session is the authoritative state machine for one battle. The live copy
// is held by the in-memory registry and mutated under a per-battle lock;
// the database row is a durable snapshot written after each committed
// transition.
type Session struct {
	gorm.Model
	BattleID      string     `json:"battle_id" gorm:"uniqueIndex"`
	TenantID      string     `json:"tenant_id" gorm:"index"`
	Status        Status     `json:"status" gorm:"index"`
	CurrentTurn   TurnOwner  `json:"current_turn"`
	TurnStartedAt time.Time  `json:"turn_started_at"`
	LastActionAt  time.Time  `json:"last_action_at"`
	TurnDeadline  time.Time  `json:"turn_deadline" gorm:"index"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	WinnerID      string     `json:"winner_id,omitempty"`
	Field         Field      `json:"field" gorm:"serializer:json"`
	// LastSeq is the sequence number of the most recent log entry. The next
	// appended entry always gets LastSeq+1.
	LastSeq      uint64 `json:"last_seq"`
	StatsCounted bool   `json:"-"`
}

func (Session) TableName() string { return "battles" }

// TurnIndex returns the field index of the active player (0 or 1),
// or -1 when no turn is assigned.
func (s *Session) TurnIndex() int {
	switch s.CurrentTurn {
	case TurnPlayer1:
		return 0
	case TurnPlayer2:
		return 1
	}
	return -1
}

// SeatOf returns the seat and field index for a participant.
func (s *Session) SeatOf(playerID string) (TurnOwner, int, bool) {
	if s.Field.Players[0].PlayerID == playerID {
		return TurnPlayer1, 0, true
	}
	if s.Field.Players[1].PlayerID == playerID {
		return TurnPlayer2, 1, true
	}
	return TurnNone, -1, false
}

// IsParticipant reports whether playerID belongs to this battle.
func (s *Session) IsParticipant(playerID string) bool {
	_, _, ok := s.SeatOf(playerID)
	return ok
}

// Terminal reports whether the session reached a final state.
func (s *Session) Terminal() bool {
	return s.Status == StatusFinished || s.Status == StatusAbandoned
}
