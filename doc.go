// Copyright 2026 The lockfree-kit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lockfreekit provides a bounded, lock-free MPMC FIFO queue.
//
// [MPMC] is a fixed-capacity ring buffer safe for any number of concurrent
// producer and consumer goroutines. It uses per-slot sequence numbers with
// acquire/release memory ordering instead of mutexes: operations never
// block, they either complete or report full/empty immediately via
// [ErrWouldBlock]. It is a building block for worker pools, pipelines and
// fan-out, not a complete pipeline itself.
//
// # Quick Start
//
//	// Runtime capacity (validated, exact — no power-of-2 rounding)
//	q, err := lockfreekit.New[Event](1000)
//	if err != nil {
//	    // capacity < 1
//	}
//
//	// Constant capacity (no error path)
//	q := lockfreekit.MustNew[Event](1024)
//
// # Basic Usage
//
//	// Enqueue (non-blocking)
//	value := 42
//	err := q.Enqueue(&value)
//	if lockfreekit.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if lockfreekit.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Blocking Is the Caller's Policy
//
// The queue never waits. A caller that wants blocking semantics retries
// with its own backoff or yield strategy:
//
//	backoff := iox.Backoff{}
//	for q.Enqueue(&item) != nil {
//	    backoff.Wait()
//	}
//	backoff.Reset()
//
// # Common Patterns
//
// Worker Pool (many submitters, many workers):
//
//	q := lockfreekit.MustNew[Job](4096)
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        for {
//	            job, err := q.Dequeue()
//	            if err != nil {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	// Submit jobs from anywhere
//	func Submit(j Job) error {
//	    return q.Enqueue(&j)
//	}
//
// Stages that only submit or only drain can accept the split [Producer]
// and [Consumer] interfaces instead of the full [Queue].
//
// # Ordering
//
// Values are delivered in the order their Enqueue calls win the internal
// tail CAS, not necessarily program order across goroutines. With exactly
// one producer and one consumer, FIFO order is exact.
//
// # Capacity and Length
//
// Capacity is fixed at construction and exact: New(1000) holds exactly
// 1000 elements. Indexing uses a bitmask when the capacity happens to be a
// power of 2 and modulo otherwise; the protocol is identical either way.
//
// [MPMC.Len] is advisory only. It is computed from relaxed counter loads
// and exact only while no operation is in flight. Track precise counts in
// application logic when correctness depends on them.
//
// # Reset
//
// [MPMC.Reset] reinitializes a quiescent queue for reuse. It must never
// run concurrently with Enqueue or Dequeue; doing so is undefined behavior
// by contract, not a detected error.
//
// # Error Handling
//
// The only construction failure is [ErrInvalidCapacity]. After
// construction, full and empty are ordinary, frequent outcomes reported as
// [ErrWouldBlock], sourced from [code.hybscloud.com/iox] for ecosystem
// consistency:
//
//	lockfreekit.IsWouldBlock(err)  // true if queue full/empty
//	lockfreekit.IsSemantic(err)    // true if control flow signal
//	lockfreekit.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// # Race Detection
//
// Go's race detector cannot observe happens-before relationships
// established through atomic memory orderings on separate variables. The
// slot-sequence protocol protects the non-atomic data field with
// acquire/release on the slot sequence; the detector may report false
// positives on correct executions. Tests incompatible with race detection
// are excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package lockfreekit
