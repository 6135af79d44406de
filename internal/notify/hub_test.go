package notify

import (
	"testing"
	"time"

	"cardclash/internal/battle"
)

func TestHub_PublishReachesSubscribers(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("b1")
	defer cancel()

	h.Publish("b1", Event{Entries: []battle.LogEntry{{Kind: battle.EntryAttack}}})
	select {
	case ev := <-ch:
		if len(ev.Entries) != 1 || ev.Entries[0].Kind != battle.EntryAttack {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("event never delivered")
	}
}

func TestHub_OtherBattlesDoNotLeak(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("b1")
	defer cancel()

	h.Publish("b2", Event{})
	select {
	case <-ch:
		t.Fatalf("received another battle's event")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_SlowSubscriberNeverBlocksPublish(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe("b1")
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Overrun the subscriber buffer; Publish must not block.
		for i := 0; i < 100; i++ {
			h.Publish("b1", Event{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on a slow subscriber")
	}
}

func TestHub_CancelUnsubscribes(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("b1")
	cancel()

	h.Publish("b1", Event{})
	select {
	case <-ch:
		t.Fatalf("received event after cancel")
	case <-time.After(20 * time.Millisecond):
	}
}
