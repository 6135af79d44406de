package matchmaking

import (
	"errors"
	"sync"
	"time"
)

// Pairing is strict FIFO within a tenant: the two oldest searching entries
// are paired as soon as both exist. This is a deliberate fairness choice —
// no player ever waits behind a newer entry — at the cost of ignoring
// skill or deck balance. Pairing decisions are serialized per tenant by a
// per-tenant lock; unrelated tenants pair concurrently.

type EntryStatus string

const (
	StatusSearching EntryStatus = "searching"
	StatusMatched   EntryStatus = "matched"
	StatusCancelled EntryStatus = "cancelled"
)

// QueueEntry is one waiting player. It is owned by the queue while
// searching and handed to the session factory once matched.
type QueueEntry struct {
	PlayerID string      `json:"player_id"`
	TenantID string      `json:"tenant_id"`
	DeckID   string      `json:"deck_id"`
	JoinedAt time.Time   `json:"joined_at"`
	Status   EntryStatus `json:"status"`
}

// JoinResult reports the outcome of a join: either an immediate match with
// the created battle ID, or the 1-based position in the tenant's pool.
type JoinResult struct {
	Matched  bool   `json:"matched"`
	BattleID string `json:"battle_id,omitempty"`
	Position int    `json:"position,omitempty"`
}

var (
	ErrAlreadyQueued = errors.New("player already has a queue entry")
	// ErrTransientPairingFailure means session creation failed after a pair
	// was selected; both entries were returned to the front of the queue
	// and the caller may retry.
	ErrTransientPairingFailure = errors.New("pairing failed; retry join")
)

// SessionFactory creates a battle for a selected pair and returns its ID.
// Invoked under the tenant's pairing lock so creation is atomic with
// respect to concurrent joins in the same tenant.
type SessionFactory func(tenantID string, first, second QueueEntry) (string, error)

type tenantPool struct {
	mu      sync.Mutex
	entries []*QueueEntry // join order; all searching
}

// Queue is the per-tenant matchmaking pool. Constructed at startup and
// injected where needed; there is no ambient global instance.
type Queue struct {
	factory SessionFactory

	mu       sync.Mutex // guards byPlayer and tenants
	byPlayer map[string]*QueueEntry
	tenants  map[string]*tenantPool
}

func NewQueue(factory SessionFactory) *Queue {
	return &Queue{
		factory:  factory,
		byPlayer: make(map[string]*QueueEntry),
		tenants:  make(map[string]*tenantPool),
	}
}

func (q *Queue) pool(tenantID string) *tenantPool {
	q.mu.Lock()
	defer q.mu.Unlock()
	p, ok := q.tenants[tenantID]
	if !ok {
		p = &tenantPool{}
		q.tenants[tenantID] = p
	}
	return p
}

// Join enqueues a player and pairs immediately when a partner is waiting.
// A player with a live entry anywhere is rejected; they must leave first.
func (q *Queue) Join(playerID, tenantID, deckID string) (JoinResult, error) {
	pool := q.pool(tenantID)
	pool.mu.Lock()
	defer pool.mu.Unlock()

	e := &QueueEntry{PlayerID: playerID, TenantID: tenantID, DeckID: deckID, JoinedAt: time.Now().UTC(), Status: StatusSearching}

	q.mu.Lock()
	if _, exists := q.byPlayer[playerID]; exists {
		q.mu.Unlock()
		return JoinResult{}, ErrAlreadyQueued
	}
	q.byPlayer[playerID] = e
	q.mu.Unlock()

	pool.entries = append(pool.entries, e)

	// Pair the oldest entries while a pair exists. Normally that is at most
	// one pair per join; a pool can briefly hold more after a pairing
	// failure re-queued its pair. One automatic retry on factory failure;
	// after that both entries return to the front of the pool so neither
	// re-incurs wait time.
	for len(pool.entries) >= 2 {
		first, second := pool.entries[0], pool.entries[1]
		pool.entries = pool.entries[2:]

		var battleID string
		var err error
		for attempt := 0; attempt < 2; attempt++ {
			battleID, err = q.factory(tenantID, *first, *second)
			if err == nil {
				break
			}
		}
		if err != nil {
			pool.entries = append([]*QueueEntry{first, second}, pool.entries...)
			if first == e || second == e {
				return JoinResult{}, ErrTransientPairingFailure
			}
			break
		}

		first.Status = StatusMatched
		second.Status = StatusMatched
		q.mu.Lock()
		delete(q.byPlayer, first.PlayerID)
		delete(q.byPlayer, second.PlayerID)
		q.mu.Unlock()

		if first == e || second == e {
			return JoinResult{Matched: true, BattleID: battleID}, nil
		}
	}

	// The joiner was not matched; report where they wait.
	for i := range pool.entries {
		if pool.entries[i] == e {
			return JoinResult{Position: i + 1}, nil
		}
	}
	return JoinResult{Position: len(pool.entries)}, nil
}

// Leave cancels a searching entry. Idempotent: no-op when the player has
// no live entry (or was matched concurrently).
func (q *Queue) Leave(playerID string) {
	q.mu.Lock()
	e := q.byPlayer[playerID]
	q.mu.Unlock()
	if e == nil {
		return
	}

	pool := q.pool(e.TenantID)
	pool.mu.Lock()
	defer pool.mu.Unlock()

	q.mu.Lock()
	e = q.byPlayer[playerID]
	if e == nil {
		q.mu.Unlock()
		return
	}
	e.Status = StatusCancelled
	delete(q.byPlayer, playerID)
	q.mu.Unlock()

	for i := range pool.entries {
		if pool.entries[i].PlayerID == playerID {
			pool.entries = append(pool.entries[:i], pool.entries[i+1:]...)
			break
		}
	}
}

// Position returns the 1-based rank of a searching player within their
// tenant's pool, ordered by join time. ok is false when the player is not
// currently searching.
func (q *Queue) Position(playerID string) (int, bool) {
	q.mu.Lock()
	e := q.byPlayer[playerID]
	q.mu.Unlock()
	if e == nil {
		return 0, false
	}

	pool := q.pool(e.TenantID)
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for i := range pool.entries {
		if pool.entries[i].PlayerID == playerID {
			return i + 1, true
		}
	}
	return 0, false
}

// PoolSize returns the number of searching entries for a tenant.
func (q *Queue) PoolSize(tenantID string) int {
	pool := q.pool(tenantID)
	pool.mu.Lock()
	defer pool.mu.Unlock()
	return len(pool.entries)
}
