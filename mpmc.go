// Copyright 2026 The lockfree-kit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfreekit

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// MPMC is a bounded, lock-free, multi-producer multi-consumer queue.
//
// It is a fixed-capacity ring buffer driven by per-slot sequence numbers:
// producers and consumers claim slots with a CAS on the tail/head counter,
// and an acquire/release pair on each slot's sequence publishes the value
// between the claiming goroutines. No mutexes, no OS-level waiting; Enqueue
// and Dequeue either complete or report full/empty immediately.
//
// A slot's sequence encodes one of three states relative to position pos:
//
//	seq == pos     free for the producer claiming pos
//	seq == pos+1   holds the value for the consumer claiming pos
//	otherwise      belongs to another generation (not yet reusable)
//
// An MPMC must be shared by pointer. Copying a live queue gives two
// independent counter sets over conceptually shared slots and corrupts
// the protocol; go vet reports such copies.
//
// Memory: capacity slots (16+ bytes per slot), modulo indexing with a
// bitmask fast path when capacity is a power of 2.
type MPMC[T any] struct {
	noCopy   noCopy
	_        pad
	tail     atomix.Uint64 // Producer index
	_        pad
	head     atomix.Uint64 // Consumer index
	_        pad
	buffer   []slot[T]
	capacity uint64
	mask     uint64 // capacity - 1, used only when pow2
	pow2     bool
}

type slot[T any] struct {
	seq  atomix.Uint64
	data T
	_    padShort // Pad to cache line
}

// New creates an MPMC queue with the given runtime capacity.
// Returns ErrInvalidCapacity if capacity < 1. The capacity is exact:
// New(3) yields Cap() == 3, there is no power-of-2 rounding.
func New[T any](capacity int) (*MPMC[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return newMPMC[T](capacity), nil
}

// MustNew creates an MPMC queue with a capacity known to be valid, such as
// a compile-time constant. It performs the same initialization as New but
// panics instead of returning an error, so the call site has no error path.
func MustNew[T any](capacity int) *MPMC[T] {
	if capacity < 1 {
		panic("lockfreekit: capacity must be >= 1")
	}
	return newMPMC[T](capacity)
}

func newMPMC[T any](capacity int) *MPMC[T] {
	n := uint64(capacity)
	q := &MPMC[T]{
		buffer:   make([]slot[T], n),
		capacity: n,
		mask:     n - 1,
		pow2:     n&(n-1) == 0,
	}

	for i := uint64(0); i < n; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}

	return q
}

func (q *MPMC[T]) slotAt(pos uint64) *slot[T] {
	if q.pow2 {
		return &q.buffer[pos&q.mask]
	}
	return &q.buffer[pos%q.capacity]
}

// Enqueue adds an element to the queue.
// Returns ErrWouldBlock if the queue is full.
func (q *MPMC[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadRelaxed()
		slot := q.slotAt(tail)
		// Acquire pairs with the freeing consumer's release-store: a free
		// slot (diff == 0) is observed only after the consumer is fully
		// done with it.
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(tail)

		if diff == 0 {
			// Relaxed CAS suffices: the slot sequence, not the counter,
			// publishes the value.
			if q.tail.CompareAndSwapRelaxed(tail, tail+1) {
				slot.data = *elem
				slot.seq.StoreRelease(tail + 1)
				return nil
			}
		} else if diff < 0 {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns an element from the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPMC[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadRelaxed()
		slot := q.slotAt(head)
		// Acquire pairs with the producer's release-store, making the
		// value write visible before it is read here.
		seq := slot.seq.LoadAcquire()
		diff := int64(seq) - int64(head+1)

		if diff == 0 {
			if q.head.CompareAndSwapRelaxed(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				// Free the slot for the producer claiming head+capacity.
				slot.seq.StoreRelease(head + q.capacity)
				return elem, nil
			}
		} else if diff < 0 {
			var zero T
			return zero, ErrWouldBlock
		}
		sw.Once()
	}
}

// Len returns the approximate number of queued elements.
//
// The result is advisory: it is computed from relaxed counter loads and can
// be stale the instant it returns. It is always within [0, Cap()] and exact
// only while no Enqueue or Dequeue is in flight. Use it for diagnostics or
// backpressure hints, never for correctness decisions.
func (q *MPMC[T]) Len() int {
	return int(q.tail.LoadRelaxed() - q.head.LoadRelaxed())
}

// Cap returns the queue capacity.
func (q *MPMC[T]) Cap() int {
	return int(q.capacity)
}

// Reset returns the queue to its freshly constructed empty state.
//
// Reset is NOT safe for concurrent use: the caller must guarantee no other
// goroutine is enqueueing or dequeueing while it runs. Calling Reset
// concurrently with queue operations is undefined behavior; the hot path
// deliberately pays nothing to detect the misuse. It exists for reusing a
// quiescent queue, not as a runtime-checked API.
func (q *MPMC[T]) Reset() {
	q.head.StoreRelaxed(0)
	q.tail.StoreRelaxed(0)
	for i := uint64(0); i < q.capacity; i++ {
		q.buffer[i].seq.StoreRelaxed(i)
	}
}
