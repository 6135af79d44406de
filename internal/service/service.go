package service

import (
	"errors"
	"fmt"
	"time"

	"cardclash/internal/battle"
	"cardclash/internal/battlelog"
	"cardclash/internal/config"
	"cardclash/internal/logging"
	"cardclash/internal/matchmaking"
	"cardclash/internal/notify"
	"cardclash/internal/registry"
	"cardclash/internal/storage"
	"cardclash/internal/timer"
)

var (
	ErrBattleNotFound    = errors.New("battle not found")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidTransition = errors.New("operation not valid in the current battle state")
	ErrCardNotInHand     = errors.New("card not in hand")
	ErrNoMonsterToAttack = errors.New("no monster on the field to attack with")
	ErrUnknownDeck       = errors.New("unknown deck")
	ErrOpponentNotFound  = errors.New("opponent not found")
	ErrUnauthorized      = errors.New("caller is not a participant of this battle")
)

// errNoChange signals that a transition function decided nothing needs to
// happen (idempotent timeout checks). The state is not persisted and no
// event is published.
var errNoChange = errors.New("no state change")

// Options are the battle policy knobs taken from the loaded config.
type Options struct {
	TurnTimeout            time.Duration
	StartingHitPoints      int
	MaxConsecutiveTimeouts int
}

// BattleService owns every transition of every battle. It wires the pure
// resolver to the per-battle registry lock, assigns log sequence numbers,
// persists committed transitions and publishes them to observers. It is
// constructed once at startup and injected into the API layer.
type BattleService struct {
	repo    storage.Repository
	reg     *registry.Registry
	hub     *notify.Hub
	catalog *config.Catalog
	timers  *timer.Registry
	queue   *matchmaking.Queue
	opts    Options
}

func NewBattleService(repo storage.Repository, reg *registry.Registry, hub *notify.Hub, catalog *config.Catalog, opts Options) *BattleService {
	svc := &BattleService{repo: repo, reg: reg, hub: hub, catalog: catalog, opts: opts}
	svc.timers = timer.New(opts.TurnTimeout, func(battleID string) {
		if err := svc.ForceTimeout(battleID); err != nil && !errors.Is(err, ErrBattleNotFound) {
			logging.Error("turn timer expiry failed", err, logging.Fields{"battle_id": battleID})
		}
	})
	svc.queue = matchmaking.NewQueue(svc.matchedSession)
	return svc
}

// transition runs fn under the per-battle lock, then commits: sequence
// numbers are assigned, the snapshot and entries are persisted in one
// transaction and the event is published in order. A failed persist rolls
// the in-memory state back so rejected actions never partially apply.
func (svc *BattleService) transition(battleID string, fn func(s *battle.Session) ([]battle.LogEntry, error)) (*battle.Session, error) {
	var snap *battle.Session
	err := svc.reg.With(battleID, func(s *battle.Session) error {
		backup := s.Clone()
		entries, err := fn(s)
		if err != nil {
			if errors.Is(err, errNoChange) {
				// Nothing to persist, publish or re-arm.
				return nil
			}
			return err
		}
		entries = battlelog.Assign(s, entries)
		if err := svc.repo.SaveSessionWithEntries(s, entries); err != nil {
			*s = *backup
			return fmt.Errorf("persist battle %s: %w", battleID, err)
		}
		snap = s.Clone()
		if len(entries) > 0 {
			svc.hub.Publish(battleID, notify.Event{Entries: entries, Snapshot: snap})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrBattleNotFound
		}
		return nil, err
	}
	return snap, nil
}

// afterTransition arms or tears down the battle's turn timer and, once a
// battle turns terminal, counts stats and evicts the live session. Stats
// and eviction happen outside the per-battle lock.
func (svc *BattleService) afterTransition(snap *battle.Session, abandonedBy string) {
	if snap == nil {
		return
	}
	if snap.Terminal() {
		svc.timers.Cancel(snap.BattleID)
		if !snap.StatsCounted {
			if err := svc.repo.UpdateStatsOnBattleEnd(snap, abandonedBy); err != nil {
				logging.Error("failed to update stats on battle end", err, logging.Fields{"battle_id": snap.BattleID})
			}
			svc.markStatsCounted(snap.BattleID)
		}
		svc.reg.Remove(snap.BattleID)
		return
	}
	if snap.Status == battle.StatusInProgress {
		svc.timers.Arm(snap.BattleID)
	}
}

func (svc *BattleService) markStatsCounted(battleID string) {
	err := svc.reg.With(battleID, func(s *battle.Session) error {
		s.StatsCounted = true
		return svc.repo.SaveSession(s)
	})
	if err != nil {
		logging.Error("failed to mark stats counted", err, logging.Fields{"battle_id": battleID})
	}
}

// Snapshot returns a deep copy of the current session state.
func (svc *BattleService) Snapshot(battleID string) (*battle.Session, error) {
	s, err := svc.reg.Snapshot(battleID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrBattleNotFound
		}
		return nil, err
	}
	return s, nil
}

// Log returns the battle's log entries after the given sequence cursor.
func (svc *BattleService) Log(battleID string, sinceSeq uint64) ([]battle.LogEntry, error) {
	return svc.repo.ListLogEntries(battleID, sinceSeq)
}

// Subscribe attaches an observer to the battle's event stream.
func (svc *BattleService) Subscribe(battleID string) (<-chan notify.Event, func()) {
	return svc.hub.Subscribe(battleID)
}

// History lists a player's terminal battles, newest first.
func (svc *BattleService) History(playerID string, limit int) ([]battle.Session, error) {
	return svc.repo.ListFinishedByPlayer(playerID, limit)
}

// guardActive validates the common preconditions of in-battle commands:
// the caller participates, the battle is running and owns the turn.
func guardActive(s *battle.Session, playerID string) error {
	seat, _, ok := s.SeatOf(playerID)
	if !ok {
		return ErrUnauthorized
	}
	if s.Status != battle.StatusInProgress {
		return ErrInvalidTransition
	}
	if s.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	return nil
}

// finishIfDead runs win detection once per resolution. The defender-side
// check runs first so an attack that kills both sides (overflow plus
// reflect) still produces exactly one winner.
func finishIfDead(s *battle.Session, now time.Time) []battle.LogEntry {
	if s.Status != battle.StatusInProgress {
		return nil
	}
	ti := s.TurnIndex()
	if ti == -1 {
		return nil
	}
	active := &s.Field.Players[ti]
	other := &s.Field.Players[1-ti]

	var winner string
	switch {
	case other.HitPoints <= 0:
		winner = active.PlayerID
	case active.HitPoints <= 0:
		winner = other.PlayerID
	default:
		return nil
	}

	s.Status = battle.StatusFinished
	s.WinnerID = winner
	s.CurrentTurn = battle.TurnNone
	t := now
	s.FinishedAt = &t
	return []battle.LogEntry{{
		Kind:     battle.EntryBattleFinished,
		ActorID:  winner,
		Payload:  battle.Payload{"winner_id": winner},
		LoggedAt: now,
	}}
}
