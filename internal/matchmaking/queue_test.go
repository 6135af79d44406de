package matchmaking

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func okFactory(prefix string) SessionFactory {
	n := 0
	return func(tenantID string, first, second QueueEntry) (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

func TestJoin_PairsTwoOldest(t *testing.T) {
	var paired [][2]string
	q := NewQueue(func(tenantID string, first, second QueueEntry) (string, error) {
		paired = append(paired, [2]string{first.PlayerID, second.PlayerID})
		return "battle-1", nil
	})

	res, err := q.Join("alice", "school-a", "deck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched || res.Position != 1 {
		t.Fatalf("expected alice waiting at position 1, got %+v", res)
	}

	res, err = q.Join("bob", "school-a", "deck-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Matched || res.BattleID != "battle-1" {
		t.Fatalf("expected bob matched into battle-1, got %+v", res)
	}
	if len(paired) != 1 || paired[0] != [2]string{"alice", "bob"} {
		t.Fatalf("expected alice paired with bob in join order, got %v", paired)
	}
	if q.PoolSize("school-a") != 0 {
		t.Fatalf("expected empty pool after match")
	}
}

func TestJoin_DuplicateRejected(t *testing.T) {
	q := NewQueue(okFactory("b"))
	if _, err := q.Join("alice", "school-a", "deck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.Join("alice", "school-a", "deck-1"); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("expected ErrAlreadyQueued, got %v", err)
	}
	// Same player, different tenant: still rejected while the entry lives.
	if _, err := q.Join("alice", "school-b", "deck-1"); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("expected ErrAlreadyQueued across tenants, got %v", err)
	}
}

func TestJoin_TenantsNeverMix(t *testing.T) {
	q := NewQueue(func(tenantID string, first, second QueueEntry) (string, error) {
		t.Fatalf("players from different tenants must not pair")
		return "", nil
	})
	if _, err := q.Join("alice", "school-a", "deck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := q.Join("bob", "school-b", "deck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched {
		t.Fatalf("expected bob to wait in his own tenant pool")
	}
}

func TestLeave_Idempotent(t *testing.T) {
	q := NewQueue(okFactory("b"))
	if _, err := q.Join("alice", "school-a", "deck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q.Leave("alice")
	q.Leave("alice")
	if q.PoolSize("school-a") != 0 {
		t.Fatalf("expected empty pool after leave")
	}
	// Leaving frees the player to join again.
	if _, err := q.Join("alice", "school-a", "deck-1"); err != nil {
		t.Fatalf("expected rejoin after leave, got %v", err)
	}
}

func TestJoin_FactoryFailureRequeuesAtFront(t *testing.T) {
	calls := 0
	q := NewQueue(func(tenantID string, first, second QueueEntry) (string, error) {
		calls++
		if calls <= 2 {
			return "", errors.New("db down")
		}
		if first.PlayerID != "alice" || second.PlayerID != "bob" {
			return "", fmt.Errorf("expected alice+bob retried first, got %s+%s", first.PlayerID, second.PlayerID)
		}
		return "battle-1", nil
	})

	if _, err := q.Join("alice", "school-a", "deck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.Join("bob", "school-a", "deck-1"); !errors.Is(err, ErrTransientPairingFailure) {
		t.Fatalf("expected ErrTransientPairingFailure, got %v", err)
	}
	if q.PoolSize("school-a") != 2 {
		t.Fatalf("expected both entries back in the pool, got %d", q.PoolSize("school-a"))
	}

	// Charlie joining pairs the two front entries (alice and bob), not
	// himself: he keeps waiting at the front of the drained pool.
	res, err := q.Join("charlie", "school-a", "deck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Matched {
		t.Fatalf("charlie must not steal alice and bob's match, got %+v", res)
	}
	if res.Position != 1 {
		t.Fatalf("expected charlie at the front of the pool, got %+v", res)
	}
	if pos, ok := q.Position("charlie"); !ok || pos != 1 {
		t.Fatalf("expected charlie searching at position 1, got %d %v", pos, ok)
	}
}

func TestJoin_Concurrent(t *testing.T) {
	q := NewQueue(okFactory("b"))
	const players = 40

	var wg sync.WaitGroup
	var mu sync.Mutex
	matched := 0
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := q.Join(fmt.Sprintf("p%02d", i), "school-a", "deck-1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if res.Matched {
				mu.Lock()
				matched++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if matched != players/2 {
		t.Fatalf("expected %d matches, got %d", players/2, matched)
	}
	if q.PoolSize("school-a") != 0 {
		t.Fatalf("expected empty pool, got %d", q.PoolSize("school-a"))
	}
}
