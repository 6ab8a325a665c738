// Copyright 2026 The lockfree-kit Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lockfreekit_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	lockfreekit "github.com/RazAvr3/lockfree-kit"
)

// =============================================================================
// Concurrent Correctness
//
// The CAS-based slot-sequence protocol loses nothing and duplicates
// nothing: the multiset of dequeued values must equal the multiset of
// enqueued values exactly.
// =============================================================================

// TestMPMCStressConcurrent runs many producers and consumers through a
// small queue and verifies every value is delivered exactly once.
func TestMPMCStressConcurrent(t *testing.T) {
	if lockfreekit.RaceEnabled {
		t.Skip("skip: CAS-based algorithm uses cross-variable memory ordering")
	}

	const (
		numProducers = 8
		numConsumers = 8
		itemsPerProd = 10000
		timeout      = 10 * time.Second
	)

	q := lockfreekit.MustNew[int](64)
	expectedTotal := numProducers * itemsPerProd
	seen := make([]atomix.Int32, expectedTotal)

	var wg sync.WaitGroup
	var produced, consumed atomix.Int64
	var timedOut atomix.Bool
	deadline := time.Now().Add(timeout)

	// Producers: each produces a disjoint range (id*itemsPerProd + seq)
	for p := range numProducers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range itemsPerProd {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v := id*itemsPerProd + i
				for q.Enqueue(&v) != nil {
					if time.Now().After(deadline) {
						timedOut.Store(true)
						return
					}
					backoff.Wait()
				}
				produced.Add(1)
				backoff.Reset()
			}
		}(p)
	}

	// Consumers: track seen values
	for range numConsumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for consumed.Load() < int64(expectedTotal) {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				v, err := q.Dequeue()
				if err == nil {
					if v >= 0 && v < expectedTotal {
						seen[v].Add(1)
					}
					consumed.Add(1)
					backoff.Reset()
				} else {
					backoff.Wait()
				}
			}
		}()
	}

	wg.Wait()

	if timedOut.Load() {
		t.Logf("timeout: produced=%d, consumed=%d/%d", produced.Load(), consumed.Load(), expectedTotal)
	}

	// No loss
	if got := consumed.Load(); got != int64(expectedTotal) {
		t.Errorf("consumed %d, want %d", got, expectedTotal)
	}

	// No duplication, no invention
	var missing, duplicates int
	for i := range expectedTotal {
		switch count := seen[i].Load(); {
		case count == 0:
			missing++
		case count > 1:
			duplicates++
		}
	}
	if missing > 0 {
		t.Errorf("%d values lost", missing)
	}
	if duplicates > 0 {
		t.Errorf("linearizability violation: %d duplicates", duplicates)
	}
}

// TestSPSCInterleavedFIFO runs one producer against one concurrent
// consumer on a capacity-16 queue. With a single producer and a single
// consumer, FIFO order is exact even under interleaving.
func TestSPSCInterleavedFIFO(t *testing.T) {
	if lockfreekit.RaceEnabled {
		t.Skip("skip: CAS-based algorithm uses cross-variable memory ordering")
	}

	q := lockfreekit.MustNew[int](16)

	var wg sync.WaitGroup
	results := make([]int, 0, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := 100; i < 105; i++ {
			v := i
			for q.Enqueue(&v) != nil {
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for len(results) < 5 {
			v, err := q.Dequeue()
			if err != nil {
				backoff.Wait()
				continue
			}
			backoff.Reset()
			results = append(results, v)
		}
	}()

	wg.Wait()

	for i, v := range results {
		if v != 100+i {
			t.Fatalf("receipt order[%d]: got %d, want %d", i, v, 100+i)
		}
	}
}

// TestLenBoundedUnderLoad verifies that Len stays within [0, Cap()] while
// producers and consumers are actively mutating the queue.
func TestLenBoundedUnderLoad(t *testing.T) {
	if lockfreekit.RaceEnabled {
		t.Skip("skip: CAS-based algorithm uses cross-variable memory ordering")
	}

	const timeout = 2 * time.Second
	q := lockfreekit.MustNew[int](32)

	var wg sync.WaitGroup
	var stop atomix.Bool
	deadline := time.Now().Add(timeout)

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for !stop.Load() {
				v := 1
				if q.Enqueue(&v) != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
			}
		}()
	}

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for !stop.Load() {
				if _, err := q.Dequeue(); err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
			}
		}()
	}

	for time.Now().Before(deadline) {
		if l := q.Len(); l < 0 || l > q.Cap() {
			stop.Store(true)
			wg.Wait()
			t.Fatalf("Len %d out of [0, %d] under load", l, q.Cap())
		}
	}
	stop.Store(true)
	wg.Wait()
}
