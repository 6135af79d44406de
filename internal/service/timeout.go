package service

import (
	"time"

	"cardclash/internal/battle"
	"cardclash/internal/engine"
	"cardclash/internal/logging"
)

// ForceTimeout performs the forced turn pass for a battle whose deadline
// elapsed. It is safe to call at any time: the deadline is re-validated
// under the battle lock, so a call racing a voluntary action (or a second
// check after the timeout already fired) is a no-op.
func (svc *BattleService) ForceTimeout(battleID string) error {
	var abandonedBy string
	snap, err := svc.transition(battleID, func(s *battle.Session) ([]battle.LogEntry, error) {
		if s.Status != battle.StatusInProgress {
			return nil, errNoChange
		}
		now := time.Now().UTC()
		if now.Before(s.TurnDeadline) {
			return nil, errNoChange
		}

		ti := s.TurnIndex()
		p := &s.Field.Players[ti]
		p.ConsecutiveTimeouts++
		timedOut := p.PlayerID

		entries := []battle.LogEntry{{
			Kind:    battle.EntryTurnTimeout,
			ActorID: timedOut,
			Payload: battle.Payload{
				"player_id":   timedOut,
				"consecutive": p.ConsecutiveTimeouts,
			},
			LoggedAt: now,
		}}

		// A player who lets too many turns in a row expire forfeits.
		// Disabled when the limit is zero.
		if svc.opts.MaxConsecutiveTimeouts > 0 && p.ConsecutiveTimeouts > svc.opts.MaxConsecutiveTimeouts {
			s.Status = battle.StatusAbandoned
			s.CurrentTurn = battle.TurnNone
			t := now
			s.FinishedAt = &t
			abandonedBy = timedOut
			entries = append(entries, battle.LogEntry{
				Kind:     battle.EntryBattleAbandoned,
				ActorID:  timedOut,
				Payload:  battle.Payload{"abandoned_by": timedOut, "reason": "timeout_forfeit"},
				LoggedAt: now,
			})
			return entries, nil
		}

		s.CurrentTurn = s.CurrentTurn.Other()
		s.TurnStartedAt = now
		s.LastActionAt = now
		s.TurnDeadline = now.Add(svc.opts.TurnTimeout)

		entries = append(entries, engine.ResolveTurnStart(s, now)...)
		entries = append(entries, finishIfDead(s, now)...)
		return entries, nil
	})
	if err != nil {
		return err
	}
	svc.afterTransition(snap, abandonedBy)
	return nil
}

// SweepStalled force-passes every in-progress battle whose deadline is
// already behind now. Run periodically, it covers in-memory timers lost to
// a process restart; ForceTimeout's deadline check keeps the overlap with
// live timers harmless.
func (svc *BattleService) SweepStalled(now time.Time, limit int) {
	stalled, err := svc.repo.FindStalledBattles(now, limit)
	if err != nil {
		logging.Error("failed to scan for stalled battles", err, nil)
		return
	}
	for i := range stalled {
		if err := svc.ForceTimeout(stalled[i].BattleID); err != nil {
			logging.Error("forced timeout failed", err, logging.Fields{"battle_id": stalled[i].BattleID})
		}
	}
}
