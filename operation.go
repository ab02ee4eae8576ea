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

package async

import (
	"sync/atomic"

	"github.com/asyncfx/async/internal/event"
	"github.com/asyncfx/async/internal/registry"
	"github.com/asyncfx/async/internal/status"
)

// Operation is a single-assignment, observable future.
//
// A producer creates it, optionally narrates its lifecycle through
// TrySetScheduled and TrySetRunning, then settles it exactly once through
// one of the terminal setters. Consumers read its status, block on Wait or
// Done, register completion callbacks, or build new operations from it with
// Then, Catch, Finally, and the other combinators.
//
// All status accessors and transitions are lock-free; the only blocking
// calls are the ones that ask for it(Wait, Done, Result).
//
// The zero value is a live operation in the Created status; New and its
// sibling constructors exist for the configurable variants.
type Operation[T any] struct {
	word  status.Word
	conts registry.Registry

	// the blocking-wait signal, created lazily by the first Wait/Done call.
	event atomic.Pointer[event.Event]

	// the optional invoke-later capability for completion callbacks.
	// nil means callbacks run inline on the completer's goroutine.
	sched Scheduler

	// opaque, caller-owned value; immutable after construction.
	state any

	// the outcome of the operation.
	// both are written exactly once, by the settling caller, between its
	// reservation of the word and its publishing of the completed bit.
	// don't read them unless the word is known to be completed.
	val T
	err error
}

// Status returns the current lifecycle status of the operation.
func (p *Operation[T]) Status() Status {
	return Status(status.CodeOf(p.load()))
}

// IsCompleted returns true once the operation has settled, in any of the
// terminal statuses. It flips to true exactly once, and monotonically.
func (p *Operation[T]) IsCompleted() bool {
	return status.IsCompleted(p.load())
}

// IsCompletedSuccessfully returns true if the operation settled in the
// RanToCompletion status.
func (p *Operation[T]) IsCompletedSuccessfully() bool {
	return status.IsRanToCompletion(p.load())
}

// IsFaulted returns true if the operation settled in the Faulted status.
func (p *Operation[T]) IsFaulted() bool {
	return status.IsFaulted(p.load())
}

// IsCanceled returns true if the operation settled in the Canceled status.
func (p *Operation[T]) IsCanceled() bool {
	return status.IsCanceled(p.load())
}

// CompletedSynchronously returns true if the operation settled on the same
// call stack that created it. It's meaningful only once IsCompleted is true.
func (p *Operation[T]) CompletedSynchronously() bool {
	return status.IsSync(p.load())
}

// Err returns the stored error of a Faulted or Canceled operation, without
// blocking. It returns nil while the operation is in flight, and on a
// successful one.
func (p *Operation[T]) Err() error {
	if !status.IsCompleted(p.load()) {
		return nil
	}
	return p.err
}

// UserState returns the opaque value attached at construction time.
func (p *Operation[T]) UserState() any {
	p.load()
	return p.state
}

// load returns the current raw status word, panicking with ErrDisposed on
// any access to a disposed operation.
func (p *Operation[T]) load() uint32 {
	u := p.word.Load()
	if status.IsDisposed(u) {
		panic(ErrDisposed)
	}
	return u
}

// TrySetScheduled moves the operation from Created to Scheduled.
// It returns false, silently, if the operation has already moved past it,
// including having settled.
func (p *Operation[T]) TrySetScheduled() bool {
	p.load()
	return p.word.TryAdvance(status.Scheduled)
}

// SetScheduled is like TrySetScheduled, except it panics with
// ErrAlreadySettled if the transition is no longer legal.
func (p *Operation[T]) SetScheduled() {
	if !p.TrySetScheduled() {
		panic(ErrAlreadySettled)
	}
}

// TrySetRunning moves the operation to Running.
// It returns false, silently, if the operation has already settled, which
// allows a delayed mark-running notification to race safely against an
// early completion.
func (p *Operation[T]) TrySetRunning() bool {
	p.load()
	return p.word.TryAdvance(status.Running)
}

// SetRunning is like TrySetRunning, except it panics with
// ErrAlreadySettled if the transition is no longer legal.
func (p *Operation[T]) SetRunning() {
	if !p.TrySetRunning() {
		panic(ErrAlreadySettled)
	}
}

// TrySetResult settles the operation in the RanToCompletion status, with
// val as its result.
// It returns false if another terminal transition already won; at most one
// of the TrySet* terminal setters ever returns true.
//
// The completion is always recorded as asynchronous: synchronous completion
// is expressed through the pre-settled constructors(FromValue and its
// siblings) and through combinators whose parent had already settled, never
// through the setters.
func (p *Operation[T]) TrySetResult(val T) bool {
	return p.settle(status.RanToCompletion, val, nil, false)
}

// SetResult is like TrySetResult, except it panics with ErrAlreadySettled
// if the operation is already settled.
func (p *Operation[T]) SetResult(val T) {
	if !p.TrySetResult(val) {
		panic(ErrAlreadySettled)
	}
}

// TrySetError settles the operation in the Faulted status, with err as its
// stored error. A nil err panics.
// It returns false if another terminal transition already won.
// Like TrySetResult, it records the completion as asynchronous.
func (p *Operation[T]) TrySetError(err error) bool {
	if err == nil {
		panic(nilErrorPanicMsg)
	}
	var zero T
	return p.settle(status.Faulted, zero, err, false)
}

// SetError is like TrySetError, except it panics with ErrAlreadySettled
// if the operation is already settled.
func (p *Operation[T]) SetError(err error) {
	if !p.TrySetError(err) {
		panic(ErrAlreadySettled)
	}
}

// TrySetCanceled settles the operation in the Canceled status, storing
// ErrCanceled as its error.
// It returns false if another terminal transition already won.
// Like TrySetResult, it records the completion as asynchronous.
func (p *Operation[T]) TrySetCanceled() bool {
	var zero T
	return p.settle(status.Canceled, zero, ErrCanceled, false)
}

// SetCanceled is like TrySetCanceled, except it panics with
// ErrAlreadySettled if the operation is already settled.
func (p *Operation[T]) SetCanceled() {
	if !p.TrySetCanceled() {
		panic(ErrAlreadySettled)
	}
}

// settle is the single terminal transition path.
// winning the reservation linearizes the completion: the winner stores the
// outcome, publishes the terminal word, then runs the completion protocol
// on its own goroutine.
func (p *Operation[T]) settle(c status.Code, val T, err error, sync bool) bool {
	p.load()
	if !p.word.TryReserve() {
		return false
	}
	p.val = val
	p.err = err
	p.word.Publish(c, sync)
	p.completed()
	return true
}

// completed runs the completion protocol: signal the wait event, if one was
// lazily created, then drain the continuations.
func (p *Operation[T]) completed() {
	if e := p.event.Load(); e != nil {
		e.Set()
	}
	p.drain()
}

// drain invokes every registered continuation, on the calling goroutine,
// guarding each invocation individually so one panicking callback cannot
// suppress the others. The first recovered panic, if any, is re-raised
// after the drain finishes; later ones are unrecoverable at that point and
// are dropped in its favor.
func (p *Operation[T]) drain() {
	var panicked any
	p.conts.Drain(func(cb func()) {
		if v := guardedInvoke(cb); v != nil && panicked == nil {
			panicked = v
		}
	})
	if panicked != nil {
		panic(panicToError(panicked))
	}
}

func guardedInvoke(cb func()) (v any) {
	defer func() { v = recover() }()
	cb()
	return nil
}

// AddCompletionCallback registers cb to run once the operation settles.
// If the operation is already settled, cb runs immediately and
// synchronously on the calling goroutine. Otherwise it runs on the
// goroutine that settles the operation, or through the operation's
// Scheduler if one was attached at construction.
//
// Callbacks registered from the same goroutine run in registration order.
// A registered callback cannot be removed.
//
// It panics if cb is nil.
func (p *Operation[T]) AddCompletionCallback(cb func(*Operation[T])) {
	p.AddCompletionCallbackVia(p.sched, cb)
}

// AddCompletionCallbackVia is like AddCompletionCallback, with an explicit
// invoke-later capability: the callback is handed to s instead of running
// inline on the completer's goroutine. A nil Scheduler means inline.
//
// Note that an immediate invocation(registering on a settled operation)
// still goes through s, so the marshaling policy holds either way.
func (p *Operation[T]) AddCompletionCallbackVia(s Scheduler, cb func(*Operation[T])) {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	p.load()

	run := func() { cb(p) }
	if s != nil {
		run = func() { s.Schedule(func() { cb(p) }) }
	}
	if !p.conts.TryAdd(run) {
		// completion won the race; the registering goroutine self-invokes.
		run()
	}
}

// RemoveCompletionCallback always returns ErrNotSupported: continuations
// cannot be un-registered once added.
func (p *Operation[T]) RemoveCompletionCallback(cb func(*Operation[T])) error {
	p.load()
	return ErrNotSupported
}

// subscribe registers fn through the same protocol as the public callback
// registration, telling it whether it's running inline because the
// operation was already settled at subscribe time. The combinators use the
// inline flag as the completedSynchronously value of their child.
func (p *Operation[T]) subscribe(fn func(inline bool)) {
	p.load()
	if !p.conts.TryAdd(func() { fn(false) }) {
		fn(true)
	}
}

// Wait blocks the calling goroutine until the operation settles.
func (p *Operation[T]) Wait() {
	p.waitEvent().Wait()
}

// Done returns a channel that's closed once the operation settles.
// It's the select-friendly form of Wait.
func (p *Operation[T]) Done() <-chan struct{} {
	return p.waitEvent().Done()
}

// waitEvent returns the operation's wait event, lazily constructing it on
// first use. The construction is CAS-guarded and double-checked against a
// concurrent completion, so the installed event is guaranteed to end up
// signaled if the completion happened before or during construction.
func (p *Operation[T]) waitEvent() *event.Event {
	p.load()
	if e := p.event.Load(); e != nil {
		return e
	}
	e := event.New(p.IsCompleted())
	if !p.event.CompareAndSwap(nil, e) {
		return p.event.Load()
	}
	// the completer signals the event only if it loaded a non-nil pointer,
	// so re-check after publishing ours.
	if p.IsCompleted() {
		e.Set()
	}
	return e
}

// Result blocks until the operation settles, then returns its outcome: the
// stored value on success, or the zero value and the stored error on a
// fault or cancellation.
func (p *Operation[T]) Result() (T, error) {
	p.Wait()
	return p.val, p.err
}

// Value blocks until the operation settles, then returns the stored value,
// which is the zero value if the operation didn't run to completion.
func (p *Operation[T]) Value() T {
	p.Wait()
	return p.val
}

// Dispose releases the operation's wait handle and poisons the operation:
// any later access panics with ErrDisposed.
// Disposing an operation that hasn't settled panics with ErrNotSettled.
// Disposing twice, or disposing a shared do-not-dispose instance, is a
// no-op.
func (p *Operation[T]) Dispose() {
	u := p.word.Load()
	if status.IsDisposed(u) || status.IsDoNotDispose(u) {
		return
	}
	if !status.IsCompleted(u) {
		panic(ErrNotSettled)
	}
	if p.word.TryDispose() {
		if e := p.event.Load(); e != nil {
			e.Close()
		}
	}
}
