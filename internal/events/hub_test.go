package events

import (
	"fmt"
	"testing"
	"time"
)

func TestPublishPreservesOrder(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	const n = 1000
	go func() {
		for i := 0; i < n; i++ {
			hub.Publish(Event{Type: "seq", Payload: i})
		}
	}()

	for i := 0; i < n; i++ {
		ev, ok := sub.Next()
		if !ok {
			t.Fatalf("Subscriber closed after %d events", i)
		}
		if ev.Payload.(int) != i {
			t.Fatalf("Event %d delivered out of order: got %v", i, ev.Payload)
		}
	}
}

func TestSlowSubscriberDoesNotDrop(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	const n = 500
	for i := 0; i < n; i++ {
		hub.Publish(Event{Type: "burst", Payload: i})
	}

	for i := 0; i < n; i++ {
		if _, ok := sub.Next(); !ok {
			t.Fatalf("Lost events: only %d of %d delivered", i, n)
		}
	}
}

func TestUnsubscribeUnblocksNext(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	done := make(chan bool, 1)
	go func() {
		_, ok := sub.Next()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	hub.Unsubscribe(sub)

	select {
	case ok := <-done:
		if ok {
			t.Error("Expected Next to report closed")
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock on unsubscribe")
	}
}

func TestFanOutToMultipleSubscribers(t *testing.T) {
	hub := NewHub()

	var subs []*Subscriber
	for i := 0; i < 3; i++ {
		subs = append(subs, hub.Subscribe())
	}

	hub.Publish(Event{Type: "fan", Payload: "x"})

	for i, sub := range subs {
		ev, ok := sub.Next()
		if !ok || ev.Type != "fan" {
			t.Errorf("Subscriber %d missed the event", i)
		}
		hub.Unsubscribe(sub)
	}

	// Publishing with no live subscribers must not block.
	hub.Publish(Event{Type: "fan", Payload: fmt.Sprint("y")})
}
