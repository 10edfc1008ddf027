// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/motion/engine"
)

// InitialOwner is the owner tag recorded for the reference held by the
// code that constructed the queue. Close releases it; callers that
// prefer symmetry can call Release(InitialOwner) directly.
const InitialOwner = "init"

// RenderQueue is a reference-counted handle to an engine connection.
//
// Multiple goroutines (UI loops, background loaders, test harnesses)
// share one connection by holding logical references to the queue
// instead of the connection itself. The queue tracks how many owners
// are outstanding and closes the connection exactly once, when the last
// reference is released.
//
// A freshly constructed queue starts with one reference owned by its
// creator. Every Acquire must be paired with exactly one Release; the
// creator's unit is released by Close. When the count reaches zero the
// releasing goroutine closes the connection, the queue becomes disposed,
// and it stays disposed: Acquire fails from then on, and no operation
// can revive it.
//
// Acquire and Release never block. They are lock-free retry loops over
// a single atomic counter, so the decision of which goroutine performs
// teardown is derived from one compare-and-swap result rather than any
// cross-thread agreement.
type RenderQueue struct {
	// count is the number of outstanding references. Zero is terminal:
	// the counter never leaves zero once it arrives there.
	count atomic.Int64

	// disposed flips to true after teardown has completed. It trails
	// the count reaching zero by however long teardown takes.
	disposed atomic.Bool

	// submitMu serializes command submission. Connections are not safe
	// for concurrent use; reference counting alone does not order the
	// submissions of concurrent holders.
	submitMu sync.Mutex

	conn   engine.Conn
	label  string
	owners *ownerLedger
	events *dispatcher
	leak   *leakCheck
}

// NewRenderQueue wraps an engine connection in a reference-counted
// queue. The queue takes ownership of the connection: nothing else may
// close it, and the queue closes it exactly once when the last
// reference goes away.
//
// The returned queue holds one reference on behalf of the caller,
// recorded under InitialOwner. Release it with Close when done.
//
// A nil conn is allowed; teardown is then a no-op. This is useful for
// exercising lifecycle logic without an engine.
func NewRenderQueue(conn engine.Conn, opts ...QueueOption) *RenderQueue {
	o := defaultQueueOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q := &RenderQueue{
		conn:   conn,
		label:  o.label,
		owners: newOwnerLedger(),
		events: newDispatcher(),
	}
	q.count.Store(1)
	q.owners.add(InitialOwner)

	if o.leakCheck {
		q.leak = trackLeak(q, o.label)
	}

	Logger().Debug("render queue created", "label", q.label)
	return q
}

// Acquire takes one reference on behalf of owner. The tag is recorded
// for diagnostics; duplicate tags are fine and count separately.
//
// Acquire fails with ErrQueueDisposed once the count has reached zero,
// even while teardown is still running: a queue on its way down is
// never resurrected.
func (q *RenderQueue) Acquire(owner string) error {
	for {
		n := q.count.Load()
		if n == 0 {
			return ErrQueueDisposed
		}
		if q.count.CompareAndSwap(n, n+1) {
			q.owners.add(owner)
			return nil
		}
	}
}

// Release drops one reference previously taken by Acquire (or the
// creator's unit, under InitialOwner). If this is the last reference,
// the calling goroutine closes the connection before returning; a
// non-nil error from that close is returned here, but the queue is
// disposed regardless: teardown is never retried.
//
// Releasing when the count is already zero fails with ErrOverRelease
// and changes nothing. The count cannot go negative.
func (q *RenderQueue) Release(owner string) error {
	for {
		n := q.count.Load()
		if n == 0 {
			return ErrOverRelease
		}
		if !q.count.CompareAndSwap(n, n-1) {
			continue
		}

		q.owners.remove(owner)
		if n > 1 {
			return nil
		}

		// This CAS landed the 1 -> 0 transition, so this goroutine,
		// and no other, runs teardown.
		err := q.teardown()
		q.disposed.Store(true)
		q.leak.stop()
		q.events.emit(Event{Type: EventDispose, Label: q.label})
		if err != nil {
			return fmt.Errorf("motion: teardown: %w", err)
		}
		return nil
	}
}

// Close releases the reference held since construction. It is
// equivalent to Release(InitialOwner): calling it twice reports
// ErrOverRelease, because the second call has no reference to drop.
func (q *RenderQueue) Close() error {
	return q.Release(InitialOwner)
}

func (q *RenderQueue) teardown() error {
	Logger().Debug("render queue teardown", "label", q.label)
	if q.conn == nil {
		return nil
	}
	// Wait out any in-flight submission before closing the connection.
	q.submitMu.Lock()
	defer q.submitMu.Unlock()
	return q.conn.Close()
}

// Submit routes a command batch through the queue to the engine.
// Submissions from concurrent holders are serialized. Callers must hold
// a reference for the duration of the call.
func (q *RenderQueue) Submit(batch *engine.Batch, target *engine.Target) error {
	if q.count.Load() == 0 {
		return ErrQueueDisposed
	}
	if q.conn == nil {
		return nil
	}
	q.submitMu.Lock()
	defer q.submitMu.Unlock()
	return q.conn.Submit(batch, target)
}

// Flush asks the engine to finish pending work.
// Callers must hold a reference for the duration of the call.
func (q *RenderQueue) Flush() error {
	if q.count.Load() == 0 {
		return ErrQueueDisposed
	}
	if q.conn == nil {
		return nil
	}
	q.submitMu.Lock()
	defer q.submitMu.Unlock()
	return q.conn.Flush()
}

// RefCount returns the number of outstanding references. The value is a
// snapshot and may be stale by the time it is read; use it for
// diagnostics and tests, never to decide whether to call Acquire.
func (q *RenderQueue) RefCount() int {
	return int(q.count.Load())
}

// Disposed reports whether teardown has completed. Like RefCount it is
// a diagnostic snapshot: during the final release there is a window
// where the count is zero but Disposed still reports false.
func (q *RenderQueue) Disposed() bool {
	return q.disposed.Load()
}

// Owners returns a copy of the diagnostic owner multiset. The ledger is
// advisory: under concurrent churn it may briefly disagree with
// RefCount.
func (q *RenderQueue) Owners() map[string]int {
	return q.owners.snapshot()
}

// Label returns the queue label.
func (q *RenderQueue) Label() string {
	return q.label
}

// Conn exposes the underlying connection for direct engine access.
// Returns nil once the count has reached zero. Callers must hold a
// reference while using the returned connection.
func (q *RenderQueue) Conn() engine.Conn {
	if q.count.Load() == 0 {
		return nil
	}
	return q.conn
}

// Subscribe registers a listener for queue lifecycle events. The
// returned function cancels the subscription.
func (q *RenderQueue) Subscribe(fn Listener) func() {
	return q.events.subscribe(fn)
}
