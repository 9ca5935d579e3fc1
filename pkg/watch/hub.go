// Package watch provides a minimal publish/subscribe cell for observable
// state. Components own a Hub per observable value (connection state,
// activity flags) and UI layers subscribe without touching component
// internals.
package watch

import "sync"

// Hub holds a current value and broadcasts changes to subscribers.
//
// Set is a no-op when the value is unchanged, so subscribers see each
// change at most once. Delivery never blocks the publisher: each
// subscriber channel buffers a short burst of changes, and a subscriber
// that falls further behind loses the newest change rather than stalling
// the publisher. Delivered changes always preserve relative order.
type Hub[T comparable] struct {
	mu   sync.Mutex
	cur  T
	subs map[int]chan T
	next int
}

// NewHub creates a Hub with the given initial value.
func NewHub[T comparable](initial T) *Hub[T] {
	return &Hub[T]{cur: initial, subs: make(map[int]chan T)}
}

// Get returns the current value.
func (h *Hub[T]) Get() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur
}

// Set publishes v if it differs from the current value.
func (h *Hub[T]) Set(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cur == v {
		return
	}
	h.cur = v
	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel along with a
// cancel function. The channel buffers a handful of pending changes.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan T, 8)
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}
