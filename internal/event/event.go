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

// Package event implements the cross-goroutine signal used for blocking
// waits: a manual-reset event without the reset.
// It can be constructed already-signaled, set exactly once from any
// goroutine, waited on by any number of goroutines, and closed.
package event

import "sync"

// Event is a one-shot, boolean-settable signal.
type Event struct {
	mu     sync.Mutex
	set    bool
	closed bool
	ch     chan struct{}
}

// New returns a new Event. If signaled is true, the event starts in the
// set state, and Wait calls on it never block.
func New(signaled bool) *Event {
	e := &Event{ch: make(chan struct{})}
	if signaled {
		e.set = true
		close(e.ch)
	}
	return e
}

// Set signals the event, releasing all current and future waiters.
// Calling it more than once is allowed and does nothing after the first.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		return
	}
	e.set = true
	close(e.ch)
}

// Wait blocks until the event is set.
func (e *Event) Wait() {
	<-e.Done()
}

// Done returns a channel that's closed once the event is set.
func (e *Event) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		panic("async: internal: wait on a closed event")
	}
	return e.ch
}

// Close marks the event as released.
// A closed event rejects further Wait and Done calls, but pending waiters,
// if any, stay valid: closing doesn't invalidate the already-handed-out
// channel.
func (e *Event) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}
