// Copyright 2026 The lockfree-kit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfreekit

// Queue is the combined producer-consumer interface for a bounded FIFO
// queue.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Both
// operations return ErrWouldBlock when they cannot proceed (queue full or
// empty).
//
// The interface intentionally excludes a length method because accurate
// counts in lock-free algorithms require expensive cross-core
// synchronization. The concrete [MPMC] exposes an advisory [MPMC.Len] for
// diagnostics.
//
// Example:
//
//	q := lockfreekit.MustNew[int](1024)
//
//	// Enqueue
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Handle full queue
//	}
//
//	// Dequeue
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Producer is the interface for enqueueing elements.
//
// Pipeline stages that only submit work should accept a Producer rather
// than the full queue. The element is passed by pointer to avoid copying
// large structs; the queue stores a copy of the pointed-to value, so the
// original can be modified after Enqueue returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// The element is copied into the queue's internal buffer.
	// Returns nil on success, ErrWouldBlock if the queue is full.
	// Safe to call from any number of goroutines concurrently.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// Pipeline stages that only drain work should accept a Consumer rather
// than the full queue. The element is returned by value (copied from the
// queue's internal buffer); the slot is cleared to allow garbage
// collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns an element from the queue (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	// Safe to call from any number of goroutines concurrently.
	Dequeue() (T, error)
}

// noCopy is embedded in MPMC so that `go vet -copylocks` reports copies
// of a live queue.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte
