package server

import "sync"

// roundHub fans events out to the listeners of each round. Delivery is
// at-most-once per listener with no replay: a subscriber whose buffer is
// full misses the event and is expected to resynchronize from a snapshot.
type roundHub struct {
	mu         sync.Mutex
	bufferSize int
	rounds     map[string]map[*subscription]struct{}
}

type subscription struct {
	hub     *roundHub
	roundID string
	ch      chan Event
	closed  bool
}

func newRoundHub(bufferSize int) *roundHub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &roundHub{
		bufferSize: bufferSize,
		rounds:     make(map[string]map[*subscription]struct{}),
	}
}

func (h *roundHub) Subscribe(roundID string) *subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rounds[roundID]
	if group == nil {
		group = make(map[*subscription]struct{})
		h.rounds[roundID] = group
	}
	sub := &subscription{
		hub:     h,
		roundID: roundID,
		ch:      make(chan Event, h.bufferSize),
	}
	group[sub] = struct{}{}
	return sub
}

// Publish delivers the event to every current subscriber of the round in
// registration-independent order. Sends happen under the hub lock so a
// concurrent Close can never race a send into a closed channel; per
// subscriber the channel preserves emission order.
func (h *roundHub) Publish(roundID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rounds[roundID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Events yields the subscriber's stream; the channel is closed on Close.
func (sub *subscription) Events() <-chan Event {
	return sub.ch
}

// Close unregisters the subscription. Safe to call more than once.
func (sub *subscription) Close() {
	sub.hub.mu.Lock()
	defer sub.hub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.closed = true
	group := sub.hub.rounds[sub.roundID]
	delete(group, sub)
	if len(group) == 0 {
		delete(sub.hub.rounds, sub.roundID)
	}
	close(sub.ch)
}

func (h *roundHub) listenerCount(roundID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rounds[roundID])
}
