// Package buffer provides bounded queues for cross-goroutine handoff.
//
// The central type is Ring, a fixed-capacity drop-oldest queue: producers
// never block, and when the queue is full the oldest element is evicted to
// make room for the newest. This is the backpressure policy used throughout
// the streaming pipeline — a slow consumer costs stale data, never producer
// latency.
package buffer

import (
	"context"
	"errors"
	"sync"
)

// ErrDone is returned by Next when the ring is closed and empty.
var ErrDone = errors.New("buffer: ring is done")

// Ring is a bounded, thread-safe, drop-oldest queue.
//
// Push never blocks: when the ring is full the oldest element is evicted.
// Next blocks until an element is available or the ring is closed.
type Ring[T any] struct {
	notify chan struct{}

	mu         sync.Mutex
	buf        []T
	head, tail int64
	closed     bool
}

// NewRing creates a Ring with the given capacity. Capacity must be > 0.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("buffer: ring capacity must be positive")
	}
	return &Ring[T]{
		notify: make(chan struct{}, 1),
		buf:    make([]T, capacity),
	}
}

// Push appends v to the ring. If the ring is full, the oldest element is
// evicted and returned with dropped=true. Push on a closed ring is a no-op.
func (r *Ring[T]) Push(v T) (evicted T, dropped bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return evicted, false
	}
	if r.tail-r.head == int64(len(r.buf)) {
		evicted = r.buf[r.head%int64(len(r.buf))]
		r.head++
		dropped = true
	}
	r.buf[r.tail%int64(len(r.buf))] = v
	r.tail++
	// Signal under the lock so Close cannot race the send.
	select {
	case r.notify <- struct{}{}:
	default:
	}
	r.mu.Unlock()
	return evicted, dropped
}

// Next removes and returns the oldest element. It blocks until an element
// is available or the ring is closed. Returns ErrDone once the ring is
// closed and drained.
func (r *Ring[T]) Next() (T, error) {
	var zero T
	r.mu.Lock()
	for r.head == r.tail {
		if r.closed {
			r.mu.Unlock()
			return zero, ErrDone
		}
		r.mu.Unlock()
		<-r.notify
		r.mu.Lock()
	}
	v := r.buf[r.head%int64(len(r.buf))]
	r.buf[r.head%int64(len(r.buf))] = zero
	r.head++
	r.mu.Unlock()
	return v, nil
}

// NextContext is Next with cancellation: it additionally returns the
// context error if ctx ends before an element is available.
func (r *Ring[T]) NextContext(ctx context.Context) (T, error) {
	var zero T
	for {
		r.mu.Lock()
		if r.head != r.tail {
			v := r.buf[r.head%int64(len(r.buf))]
			r.buf[r.head%int64(len(r.buf))] = zero
			r.head++
			r.mu.Unlock()
			return v, nil
		}
		closed := r.closed
		r.mu.Unlock()
		if closed {
			return zero, ErrDone
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-r.notify:
		}
	}
}

// Drain removes and returns all buffered elements in FIFO order without
// blocking.
func (r *Ring[T]) Drain() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int(r.tail - r.head)
	if n == 0 {
		return nil
	}
	out := make([]T, 0, n)
	var zero T
	for r.head < r.tail {
		i := r.head % int64(len(r.buf))
		out = append(out, r.buf[i])
		r.buf[i] = zero
		r.head++
	}
	return out
}

// Snapshot returns a copy of the buffered elements in FIFO order without
// consuming them.
func (r *Ring[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int(r.tail - r.head)
	if n == 0 {
		return nil
	}
	out := make([]T, 0, n)
	for i := r.head; i < r.tail; i++ {
		out = append(out, r.buf[i%int64(len(r.buf))])
	}
	return out
}

// Reset discards all buffered elements. The ring remains usable.
func (r *Ring[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	for r.head < r.tail {
		r.buf[r.head%int64(len(r.buf))] = zero
		r.head++
	}
}

// Close closes the ring. Buffered elements remain readable via Next until
// drained; subsequent Next calls return ErrDone. Pushes after Close are
// dropped. Close is idempotent.
func (r *Ring[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	// Wake a blocked Next.
	close(r.notify)
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.tail - r.head)
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
