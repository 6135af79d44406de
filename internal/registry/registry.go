package registry

import (
	"errors"
	"sync"

	"cardclash/internal/battle"
	"cardclash/internal/dedupe"
)

// Registry holds the live, authoritative battle sessions. Within one
// battle exactly one writer mutates state at a time: every mutation goes
// through With, which serializes on a per-battle lock. Many battles run
// concurrently without contending with each other.
//
// Sessions are constructed at startup-time wiring and injected; the
// registry replaces the ambient global stores of earlier iterations.

var ErrNotFound = errors.New("battle not found")

// Loader restores a session from durable storage on cache miss.
type Loader interface {
	GetSessionByBattleID(battleID string) (*battle.Session, error)
}

type slot struct {
	mu sync.Mutex
	s  *battle.Session
}

type Registry struct {
	loader Loader

	mu    sync.Mutex
	slots map[string]*slot
}

func New(loader Loader) *Registry {
	return &Registry{loader: loader, slots: make(map[string]*slot)}
}

// Add registers a freshly created session. The caller must not retain
// references that bypass With.
func (r *Registry) Add(s *battle.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s.BattleID] = &slot{s: s}
}

// Remove drops a session from the registry, typically once terminal.
// Later reads fall through to the loader.
func (r *Registry) Remove(battleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, battleID)
}

func (r *Registry) slotFor(battleID string) (*slot, error) {
	r.mu.Lock()
	sl, ok := r.slots[battleID]
	r.mu.Unlock()
	if ok {
		return sl, nil
	}

	// Cold load, deduplicated so a burst of requests for the same battle
	// triggers one database read.
	v, err, _ := dedupe.BattleLoadGroup.Do(battleID, func() (interface{}, error) {
		r.mu.Lock()
		if sl, ok := r.slots[battleID]; ok {
			r.mu.Unlock()
			return sl, nil
		}
		r.mu.Unlock()

		s, err := r.loader.GetSessionByBattleID(battleID)
		if err != nil || s == nil {
			return nil, ErrNotFound
		}
		sl := &slot{s: s}
		r.mu.Lock()
		r.slots[battleID] = sl
		r.mu.Unlock()
		return sl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*slot), nil
}

// With runs fn with exclusive access to the session. All transition
// operations and the turn-timer callback go through here, which is what
// enforces turn-exclusivity at the engine level.
func (r *Registry) With(battleID string, fn func(*battle.Session) error) error {
	sl, err := r.slotFor(battleID)
	if err != nil {
		return err
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return fn(sl.s)
}

// Snapshot returns a deep copy of the session for observers.
func (r *Registry) Snapshot(battleID string) (*battle.Session, error) {
	var out *battle.Session
	err := r.With(battleID, func(s *battle.Session) error {
		out = s.Clone()
		return nil
	})
	return out, err
}
