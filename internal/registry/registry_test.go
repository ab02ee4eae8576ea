// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegistry_DrainEmpty(t *testing.T) {
	var r Registry
	r.Drain(func(cb func()) {
		t.Error("unexpected callback on an empty registry")
	})
	if r.TryAdd(func() {}) {
		t.Error("TryAdd succeeded after draining")
	}
}

func TestRegistry_SingleCallback(t *testing.T) {
	var r Registry
	var calls int
	if !r.TryAdd(func() { calls++ }) {
		t.Fatal("TryAdd failed on an empty registry")
	}
	r.Drain(func(cb func()) { cb() })
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestRegistry_ManyCallbacksOrder(t *testing.T) {
	const n = 10

	var r Registry
	var order []int
	for i := 0; i < n; i++ {
		i := i
		if !r.TryAdd(func() { order = append(order, i) }) {
			t.Fatalf("TryAdd %d failed", i)
		}
	}

	r.Drain(func(cb func()) { cb() })

	if len(order) != n {
		t.Fatalf("got %d callbacks, want %d", len(order), n)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("callbacks ran out of order: %v", order)
		}
	}
}

func TestRegistry_DrainOnce(t *testing.T) {
	var r Registry
	var calls int
	r.TryAdd(func() { calls++ })
	r.Drain(func(cb func()) { cb() })
	r.Drain(func(cb func()) { cb() })
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

// Every TryAdd racing a Drain must end up invoked exactly once: either it
// lands in the drain, or it's turned away and its caller self-invokes.
func TestRegistry_AddDrainRace(t *testing.T) {
	const adders = 32

	for round := 0; round < 100; round++ {
		var r Registry
		var invoked int32
		var start, done sync.WaitGroup
		start.Add(1)
		done.Add(adders + 1)

		for i := 0; i < adders; i++ {
			go func() {
				defer done.Done()
				start.Wait()
				cb := func() { atomic.AddInt32(&invoked, 1) }
				if !r.TryAdd(cb) {
					cb()
				}
			}()
		}
		go func() {
			defer done.Done()
			start.Wait()
			r.Drain(func(cb func()) { cb() })
		}()

		start.Done()
		done.Wait()

		if got := atomic.LoadInt32(&invoked); got != adders {
			t.Fatalf("round %d: %d callbacks invoked, want %d", round, got, adders)
		}
	}
}
