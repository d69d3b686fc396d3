package events

import "sync"

// Event is a typed payload pushed to the frontend.
type Event struct {
	Type    string
	Payload interface{}
}

// Hub fans events out to all current subscribers. Delivery to each
// subscriber preserves publish order; queues are unbounded so a slow
// consumer delays only itself and never drops events.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber receiving all events published
// after this call.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{notify: make(chan struct{}, 1)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes a subscriber and wakes any blocked Next call.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
	s.close()
}

// Publish delivers ev to every current subscriber.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	for s := range h.subs {
		s.push(ev)
	}
	h.mu.Unlock()
}

// Subscriber is one ordered event queue.
type Subscriber struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	notify chan struct{}
}

func (s *Subscriber) push(ev Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Next blocks until an event is available or the subscriber is closed.
// The second return is false once the subscriber is closed and drained.
func (s *Subscriber) Next() (Event, bool) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return ev, true
		}
		if s.closed {
			s.mu.Unlock()
			return Event{}, false
		}
		s.mu.Unlock()

		<-s.notify
	}
}
