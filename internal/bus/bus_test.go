package bus

import (
	"testing"
	"time"
)

func TestPublishOrderAndFanout(t *testing.T) {
	b := New()
	var first, second []string
	b.Subscribe(func(ev Event) { first = append(first, ev.MessageID) })
	b.Subscribe(func(ev Event) { second = append(second, ev.MessageID) })

	for _, id := range []string{"m1", "m2", "m3"} {
		b.Publish(Event{Kind: EventMessageAppended, MessageID: id})
	}

	for _, got := range [][]string{first, second} {
		if len(got) != 3 || got[0] != "m1" || got[1] != "m2" || got[2] != "m3" {
			t.Fatalf("delivery order = %v", got)
		}
	}
}

func TestPublishStampsTimestamp(t *testing.T) {
	b := New()
	var got Event
	b.Subscribe(func(ev Event) { got = ev })
	b.Publish(Event{Kind: EventTurnStarted})
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp not stamped")
	}

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.Publish(Event{Kind: EventTurnEnded, Timestamp: fixed})
	if !got.Timestamp.Equal(fixed) {
		t.Fatalf("explicit timestamp overwritten: %v", got.Timestamp)
	}
}

func TestReentrantSubscribe(t *testing.T) {
	b := New()
	called := false
	b.Subscribe(func(Event) {
		b.Subscribe(func(Event) { called = true })
	})
	b.Publish(Event{Kind: EventPhaseChanged})
	if called {
		t.Fatal("late subscriber must not see the event that registered it")
	}
	b.Publish(Event{Kind: EventPhaseChanged})
	if !called {
		t.Fatal("late subscriber should see subsequent events")
	}
}
