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

// continuations.go: the promise-style combinators. Each one builds a new
// child operation, subscribes it to its parent through the same protocol as
// raw completion callbacks, and settles it from the parent's outcome and
// the callback's behavior. If the parent is already settled at subscribe
// time, the whole chain step runs synchronously on the subscribing
// goroutine, and the child reports completedSynchronously.

package async

import (
	"errors"

	"github.com/asyncfx/async/internal/status"
)

// Then returns a new operation wired to this one's success.
//
// If this operation runs to completion, onSuccess is invoked with its value,
// and the returned operation completes with that same value once onSuccess
// returns. If this operation faults or is canceled, onSuccess is never
// invoked, and the outcome propagates unchanged, unless an onError callback
// was supplied, in which case onError is invoked with the stored error and
// the returned operation completes successfully instead.
//
// A panic in either callback faults the returned operation with a
// PanicError; it never escapes into the completer's call stack.
//
// It panics if onSuccess, or a supplied onError, is nil.
func (p *Operation[T]) Then(onSuccess func(val T), onError ...func(err error)) *Operation[T] {
	if onSuccess == nil {
		panic(nilCallbackPanicMsg)
	}
	var errCb func(error)
	if len(onError) != 0 {
		if onError[0] == nil {
			panic(nilCallbackPanicMsg)
		}
		errCb = onError[0]
	}

	next := p.newChild()
	p.subscribe(func(inline bool) {
		thenCall(p, next, onSuccess, errCb, inline)
	})
	return next
}

func thenCall[T any](
	prev, next *Operation[T],
	onSuccess func(T),
	onError func(error),
	inline bool,
) {
	defer faultFromPanic(next, inline)

	switch {
	case prev.IsCompletedSuccessfully():
		onSuccess(prev.val)
		next.settle(status.RanToCompletion, prev.val, nil, inline)
	case onError != nil:
		onError(prev.err)
		var zero T
		next.settle(status.RanToCompletion, zero, nil, inline)
	default:
		settleFrom(prev, next, inline)
	}
}

// Catch returns a new operation wired to this one's failure.
//
// If this operation faults or is canceled, onError is invoked with the
// stored error, and the returned operation completes successfully once it
// returns. A successful parent propagates its success unchanged, without
// invoking onError.
//
// A panic in onError faults the returned operation with a PanicError.
//
// It panics if onError is nil.
func (p *Operation[T]) Catch(onError func(err error)) *Operation[T] {
	if onError == nil {
		panic(nilCallbackPanicMsg)
	}

	next := p.newChild()
	p.subscribe(func(inline bool) {
		defer faultFromPanic(next, inline)
		if prevErr := failureOf(p); prevErr != nil {
			onError(prevErr)
			var zero T
			next.settle(status.RanToCompletion, zero, nil, inline)
		} else {
			next.settle(status.RanToCompletion, p.val, nil, inline)
		}
	})
	return next
}

// CatchAs is the filtered form of Catch: onError is invoked only when the
// parent's stored error matches E, per errors.As. Non-matching faults and
// cancellations, and successful outcomes, propagate unchanged.
func CatchAs[E error, T any](p *Operation[T], onError func(err E)) *Operation[T] {
	if p == nil {
		panic(nilOperationPanicMsg)
	}
	if onError == nil {
		panic(nilCallbackPanicMsg)
	}

	next := p.newChild()
	p.subscribe(func(inline bool) {
		defer faultFromPanic(next, inline)
		prevErr := failureOf(p)
		var match E
		if prevErr != nil && errors.As(prevErr, &match) {
			onError(match)
			var zero T
			next.settle(status.RanToCompletion, zero, nil, inline)
		} else {
			settleFrom(p, next, inline)
		}
	})
	return next
}

// Finally returns a new operation that mirrors this one's outcome, after
// invoking cb.
//
// cb is invoked unconditionally, whatever the outcome. The returned
// operation then adopts the parent's outcome unchanged, unless cb itself
// panics, in which case the returned operation faults with that new error
// instead.
//
// It panics if cb is nil.
func (p *Operation[T]) Finally(cb func()) *Operation[T] {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}

	next := p.newChild()
	p.subscribe(func(inline bool) {
		defer faultFromPanic(next, inline)
		cb()
		settleFrom(p, next, inline)
	})
	return next
}

// Rebind returns a new operation whose success value is the parent's,
// transformed through f. Faults and cancellations propagate unchanged,
// without invoking f; a panic in f faults the returned operation.
//
// It panics if p or f is nil.
func Rebind[T, U any](p *Operation[T], f func(val T) U) *Operation[U] {
	if p == nil {
		panic(nilOperationPanicMsg)
	}
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	next := newChildOf[U](p)
	p.subscribe(func(inline bool) {
		defer faultFromPanic(next, inline)
		if prevErr := failureOf(p); prevErr != nil {
			var zero U
			next.settle(failureCode(p.Status()), zero, prevErr, inline)
		} else {
			next.settle(status.RanToCompletion, f(p.val), nil, inline)
		}
	})
	return next
}

// ThenOp is the chaining form of Then for callbacks that themselves return
// an operation: the returned outer operation completes only once the inner
// operation returned by f settles, adopting its outcome.
// A nil inner operation completes the outer one with the zero value.
// Parent faults and cancellations propagate unchanged, without invoking f.
//
// It panics if p or f is nil.
func ThenOp[T, U any](p *Operation[T], f func(val T) *Operation[U]) *Operation[U] {
	if p == nil {
		panic(nilOperationPanicMsg)
	}
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	next := newChildOf[U](p)
	p.subscribe(func(inline bool) {
		defer faultFromPanic(next, inline)

		if prevErr := failureOf(p); prevErr != nil {
			var zero U
			next.settle(failureCode(p.Status()), zero, prevErr, inline)
			return
		}

		inner := f(p.val)
		if inner == nil {
			var zero U
			next.settle(status.RanToCompletion, zero, nil, inline)
			return
		}

		// adopt the inner operation's outcome once it settles; the chain
		// step is synchronous only if every hop in it was.
		inner.subscribe(func(innerInline bool) {
			settleFrom(inner, next, inline && innerInline)
		})
	})
	return next
}

// newChild returns a fresh child operation, inheriting the parent's
// scheduler so a whole chain marshals its callbacks the same way.
func (p *Operation[T]) newChild() *Operation[T] {
	return &Operation[T]{sched: p.sched}
}

func newChildOf[U, T any](p *Operation[T]) *Operation[U] {
	return &Operation[U]{sched: p.sched}
}

// failureOf returns the stored error of a faulted or canceled operation,
// and nil for one that ran to completion.
// It must be called only on a settled operation.
func failureOf[T any](p *Operation[T]) error {
	if p.IsCompletedSuccessfully() {
		return nil
	}
	return p.err
}

// settleFrom settles next with prev's outcome, unchanged.
func settleFrom[T any](prev, next *Operation[T], inline bool) {
	if prevErr := failureOf(prev); prevErr != nil {
		var zero T
		next.settle(failureCode(prev.Status()), zero, prevErr, inline)
	} else {
		next.settle(status.RanToCompletion, prev.val, nil, inline)
	}
}

func failureCode(s Status) status.Code {
	if s == Canceled {
		return status.Canceled
	}
	return status.Faulted
}

// faultFromPanic must be deferred around every combinator callback: it
// converts a panic into the child's Faulted outcome. If the child has
// already settled (the panic came from deeper in the chain, after the
// settle), the panic is re-raised rather than dropped.
func faultFromPanic[T any](next *Operation[T], inline bool) {
	v := recover()
	if v == nil {
		return
	}
	var zero T
	if !next.settle(status.Faulted, zero, panicToError(v), inline) {
		panic(v)
	}
}
