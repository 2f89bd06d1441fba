package agent

import (
	"testing"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{Type: EventRunStarted, CandidateID: 7})

	ev := <-ch
	if ev.Type != EventRunStarted || ev.CandidateID != 7 {
		t.Errorf("Unexpected event: %+v", ev)
	}
	if ev.Time.IsZero() {
		t.Error("Expected publish to stamp the event time")
	}
}

func TestBrokerDropsWhenSubscriberFull(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Publish must never block, even past the buffer size.
	for i := 0; i < 250; i++ {
		b.Publish(Event{Type: EventToolCall})
	}

	if len(ch) != cap(ch) {
		t.Errorf("Expected a full buffer, got %d of %d", len(ch), cap(ch))
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe()

	cancel()
	cancel() // must be safe to call twice

	if _, ok := <-ch; ok {
		t.Error("Expected closed channel after cancel")
	}

	// Publishing after cancel must not panic.
	b.Publish(Event{Type: EventRunFinished})
}
