// Package bridge provides the bounded, non-blocking queues connecting the
// editing context and the render context. Capacity is fixed at
// construction; steady-state push and pop never allocate and never block.
package bridge

import (
	"errors"
	"sync/atomic"
)

// Errors returned by queue operations.
var (
	// ErrBusy is returned when the inbound queue is full. The editing
	// context is expected to retry: edit rate is far below render rate,
	// so the queue is empty in steady state.
	ErrBusy = errors.New("queue full")
	// ErrDisconnected is returned when the queue was closed.
	ErrDisconnected = errors.New("queue closed")
)

// Queue is a bounded queue that rejects pushes when full. It carries edit
// commands from the editing context into the render context: exactly one
// producer and one consumer.
type Queue[T any] struct {
	ch     chan T
	closed atomic.Bool
}

// NewQueue returns a queue with fixed capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push enqueues v. It fails with ErrBusy when the queue is full and
// ErrDisconnected when the queue was closed.
func (q *Queue[T]) Push(v T) error {
	if q.closed.Load() {
		return ErrDisconnected
	}
	select {
	case q.ch <- v:
		return nil
	default:
		return ErrBusy
	}
}

// Pop dequeues the oldest entry, reporting false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Full reports whether the next Push would fail with ErrBusy. Reliable
// only for the single producer.
func (q *Queue[T]) Full() bool {
	return len(q.ch) == cap(q.ch)
}

// Close marks the queue disconnected. Pending entries remain poppable.
func (q *Queue[T]) Close() {
	q.closed.Store(true)
}

// Sliding is a bounded queue that evicts the oldest entry to make room for
// the newest. It carries telemetry out of the render context: staleness is
// tolerated, blocking the render path is not. Exactly one producer and one
// consumer.
type Sliding[T any] struct {
	ch chan T
}

// NewSliding returns a sliding queue with fixed capacity.
func NewSliding[T any](capacity int) *Sliding[T] {
	return &Sliding[T]{ch: make(chan T, capacity)}
}

// Offer enqueues v, dropping the oldest entry when the queue is full.
// It never blocks.
func (s *Sliding[T]) Offer(v T) {
	for {
		select {
		case s.ch <- v:
			return
		default:
		}
		// make room; the consumer may have raced us to it
		select {
		case <-s.ch:
		default:
		}
	}
}

// Poll dequeues the oldest entry, reporting false when the queue is empty.
func (s *Sliding[T]) Poll() (T, bool) {
	select {
	case v := <-s.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// PollLatest drains the queue and returns the newest entry, reporting
// false when nothing arrived since the last call.
func (s *Sliding[T]) PollLatest() (T, bool) {
	var latest T
	var ok bool
	for {
		select {
		case v := <-s.ch:
			latest, ok = v, true
		default:
			return latest, ok
		}
	}
}
