package timer

import (
	"sync"
	"time"
)

// Registry owns one countdown per battle, keyed off the turn deadline.
// Timers run independently of client connectivity; on expiry the fire
// callback performs the deadline-checked forced turn pass, so a stale
// timer that races a voluntary action is harmless.

type Registry struct {
	limit time.Duration
	fire  func(battleID string)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a timer registry. fire is invoked once per expiry from the
// timer goroutine; it must do its own deadline validation.
func New(limit time.Duration, fire func(battleID string)) *Registry {
	return &Registry{limit: limit, fire: fire, timers: make(map[string]*time.Timer)}
}

// Arm starts (or restarts) the countdown for a battle. Called whenever a
// turn begins or the active player acts.
func (r *Registry) Arm(battleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[battleID]; ok {
		t.Stop()
	}
	r.timers[battleID] = time.AfterFunc(r.limit, func() {
		r.expire(battleID)
	})
}

func (r *Registry) expire(battleID string) {
	r.mu.Lock()
	delete(r.timers, battleID)
	r.mu.Unlock()
	r.fire(battleID)
}

// Cancel tears down the countdown for a battle. Called when the battle
// reaches a terminal state so timers never leak.
func (r *Registry) Cancel(battleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[battleID]; ok {
		t.Stop()
		delete(r.timers, battleID)
	}
}

// Limit returns the configured per-turn limit.
func (r *Registry) Limit() time.Duration { return r.limit }
