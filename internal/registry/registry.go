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

// Package registry implements the continuation storage of an operation.
//
// The storage is a single reference cell that grows one way through the
// states Empty, One, Many, then ends in Drained. The One state exists to
// avoid allocating a list for the overwhelmingly common single-subscriber
// case. The Empty->One and One->Many transitions are plain CAS attempts.
// Only the Many state uses a lock, held briefly around list mutation, and
// never while a callback is being invoked.
package registry

import (
	"sync"
	"sync/atomic"
)

// node is the occupant of the registry's cell.
// A node with a non-nil single field is a One node; otherwise it's a Many
// node, whose list is guarded by mu.
type node struct {
	single func()

	mu     sync.Mutex
	sealed bool
	list   []func()
}

// drained is the terminal sentinel occupant.
// Once it's installed, the registry rejects all further additions.
var drained = new(node)

// Registry stores the continuations of a single operation.
// The zero value is an empty, usable registry.
type Registry struct {
	cell atomic.Pointer[node]
}

// TryAdd registers cb to be invoked by the Drain call, preserving the
// relative order of additions made from the same goroutine.
// It returns false if the registry is already drained(or draining), in
// which case the caller must invoke cb itself, immediately.
func (r *Registry) TryAdd(cb func()) bool {
	for {
		cur := r.cell.Load()
		switch {
		case cur == nil:
			// empty: install cb as the sole occupant.
			if r.cell.CompareAndSwap(nil, &node{single: cb}) {
				return true
			}
		case cur == drained:
			// too late, the drain already started.
			return false
		case cur.single != nil:
			// single occupant: upgrade it to a list holding that occupant.
			// racing upgrades are safe, only one CAS wins and every loser
			// re-reads the cell.
			r.cell.CompareAndSwap(cur, &node{list: []func(){cur.single}})
		default:
			// a list: append under its lock, unless the drain sealed it
			// while we were waiting for the lock.
			cur.mu.Lock()
			if cur.sealed {
				cur.mu.Unlock()
				return false
			}
			cur.list = append(cur.list, cb)
			cur.mu.Unlock()
			return true
		}
	}
}

// Drain exchanges the occupant for the terminal sentinel, then passes every
// registered callback, in insertion order, to invoke.
// It's a one-shot call: later Drain calls do nothing, and later TryAdd calls
// always fail.
// The callbacks run on the calling goroutine, outside any lock held by the
// registry.
func (r *Registry) Drain(invoke func(cb func())) {
	prev := r.cell.Swap(drained)
	if prev == nil || prev == drained {
		return
	}
	if prev.single != nil {
		invoke(prev.single)
		return
	}

	// seal the list first, so a racing TryAdd that already holds a
	// reference to it either lands before the snapshot or is turned away.
	prev.mu.Lock()
	prev.sealed = true
	cbs := prev.list
	prev.mu.Unlock()

	for _, cb := range cbs {
		invoke(cb)
	}
}
