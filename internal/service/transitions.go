package service

import (
	"errors"
	"time"

	"cardclash/internal/battle"
	"cardclash/internal/engine"
)

// mapEngineErr translates resolver sentinels into the service's API-facing
// error set.
func mapEngineErr(err error) error {
	switch {
	case errors.Is(err, engine.ErrCardNotInHand):
		return ErrCardNotInHand
	case errors.Is(err, engine.ErrNoMonsterToAttack):
		return ErrNoMonsterToAttack
	}
	return err
}

// touch records a voluntary action by the active player: the inactivity
// window restarts and the actor's timeout streak resets.
func (svc *BattleService) touch(s *battle.Session, now time.Time) {
	s.LastActionAt = now
	s.TurnDeadline = now.Add(svc.opts.TurnTimeout)
	if ti := s.TurnIndex(); ti != -1 {
		s.Field.Players[ti].ConsecutiveTimeouts = 0
	}
}

// StartBattle deals both hands from the configured decks and hands the
// first turn to player1. Valid only from the waiting state; either
// participant may start.
func (svc *BattleService) StartBattle(battleID, playerID string) (*battle.Session, error) {
	snap, err := svc.transition(battleID, func(s *battle.Session) ([]battle.LogEntry, error) {
		if !s.IsParticipant(playerID) {
			return nil, ErrUnauthorized
		}
		if s.Status != battle.StatusWaiting {
			return nil, ErrInvalidTransition
		}
		now := time.Now().UTC()
		for i := range s.Field.Players {
			p := &s.Field.Players[i]
			hand, err := svc.catalog.Deal(p.DeckID)
			if err != nil {
				return nil, err
			}
			p.Hand = hand
		}
		s.Status = battle.StatusInProgress
		s.CurrentTurn = battle.TurnPlayer1
		s.TurnStartedAt = now
		t := now
		s.StartedAt = &t
		svc.touch(s, now)

		return []battle.LogEntry{{
			Kind:    battle.EntryBattleStarted,
			ActorID: playerID,
			Payload: battle.Payload{
				"player1":    s.Field.Players[0].PlayerID,
				"player2":    s.Field.Players[1].PlayerID,
				"hit_points": s.Field.Players[0].MaxHitPoints,
			},
			LoggedAt: now,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	svc.afterTransition(snap, "")
	return snap, nil
}

// PlayCard places a hand card on the caller's field, face-up as a monster
// or face-down as a trap.
func (svc *BattleService) PlayCard(battleID, playerID, cardID string, asTrap bool) (*battle.Session, error) {
	snap, err := svc.transition(battleID, func(s *battle.Session) ([]battle.LogEntry, error) {
		if err := guardActive(s, playerID); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		entries, err := engine.ResolvePlay(s, cardID, asTrap, now)
		if err != nil {
			return nil, mapEngineErr(err)
		}
		svc.touch(s, now)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	svc.afterTransition(snap, "")
	return snap, nil
}

// Attack resolves the caller's attack for this turn, including win
// detection when hit points drop to zero or below.
func (svc *BattleService) Attack(battleID, playerID string) (*battle.Session, error) {
	snap, err := svc.transition(battleID, func(s *battle.Session) ([]battle.LogEntry, error) {
		if err := guardActive(s, playerID); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		entries, err := engine.ResolveAttack(s, now)
		if err != nil {
			return nil, mapEngineErr(err)
		}
		svc.touch(s, now)
		entries = append(entries, finishIfDead(s, now)...)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	svc.afterTransition(snap, "")
	return snap, nil
}

// EndTurn passes the turn to the opponent and runs their start-of-turn
// processing (effect ticks, burn, heal). Burn can finish the battle.
func (svc *BattleService) EndTurn(battleID, playerID string) (*battle.Session, error) {
	snap, err := svc.transition(battleID, func(s *battle.Session) ([]battle.LogEntry, error) {
		if err := guardActive(s, playerID); err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		entries := []battle.LogEntry{{
			Kind:     battle.EntryTurnEnded,
			ActorID:  playerID,
			Payload:  battle.Payload{"next_turn": string(s.CurrentTurn.Other())},
			LoggedAt: now,
		}}
		s.Field.Players[s.TurnIndex()].ConsecutiveTimeouts = 0
		s.CurrentTurn = s.CurrentTurn.Other()
		s.TurnStartedAt = now
		s.LastActionAt = now
		s.TurnDeadline = now.Add(svc.opts.TurnTimeout)

		entries = append(entries, engine.ResolveTurnStart(s, now)...)
		entries = append(entries, finishIfDead(s, now)...)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	svc.afterTransition(snap, "")
	return snap, nil
}

// Abandon forfeits the battle. The session becomes terminal immediately;
// no winner is assigned and the abandoning player's stats record the
// abandon.
func (svc *BattleService) Abandon(battleID, playerID string) (*battle.Session, error) {
	snap, err := svc.transition(battleID, func(s *battle.Session) ([]battle.LogEntry, error) {
		if !s.IsParticipant(playerID) {
			return nil, ErrUnauthorized
		}
		if s.Terminal() {
			return nil, ErrInvalidTransition
		}
		now := time.Now().UTC()
		s.Status = battle.StatusAbandoned
		s.CurrentTurn = battle.TurnNone
		t := now
		s.FinishedAt = &t

		return []battle.LogEntry{{
			Kind:     battle.EntryBattleAbandoned,
			ActorID:  playerID,
			Payload:  battle.Payload{"abandoned_by": playerID},
			LoggedAt: now,
		}}, nil
	})
	if err != nil {
		return nil, err
	}
	svc.afterTransition(snap, playerID)
	return snap, nil
}
