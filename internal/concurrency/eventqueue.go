// File: internal/concurrency/eventqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unbounded FIFO of owned events. Many producers (core threads calling the
// trampoline), one consumer (the dispatcher).

package concurrency

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/nanonet/api"
)

// EventQueue is safe for concurrent Push. Pop must only be called from a
// single consumer. Push never blocks: the queue grows as needed, matching
// the core's expectation that the trampoline returns promptly.
type EventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *queue.Queue
	closed bool
}

// NewEventQueue returns an empty, open queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{items: queue.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends ev. It returns api.ErrQueueClosed once Close has been called;
// the caller keeps ownership of ev in that case.
func (q *EventQueue) Push(ev api.Event) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return api.ErrQueueClosed
	}
	q.items.Add(ev)
	q.mu.Unlock()
	q.cond.Signal()
	return nil
}

// Pop blocks until an event is available or the queue is closed and empty.
// ok is false only in the latter case.
func (q *EventQueue) Pop() (ev api.Event, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Length() == 0 {
		if q.closed {
			return ev, false
		}
		q.cond.Wait()
	}
	return q.items.Remove().(api.Event), true
}

// Close rejects further pushes and wakes the consumer. Events already queued
// stay available to Pop.
func (q *EventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Discard drops every queued event, releasing its payload, and returns how
// many were dropped.
func (q *EventQueue) Discard() int {
	q.mu.Lock()
	n := q.items.Length()
	pending := make([]api.Event, 0, n)
	for q.items.Length() > 0 {
		pending = append(pending, q.items.Remove().(api.Event))
	}
	q.mu.Unlock()
	q.cond.Broadcast()
	for i := range pending {
		pending[i].Release()
	}
	return n
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Closed reports whether Close has been called.
func (q *EventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
