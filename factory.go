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
	"context"
	"errors"

	"github.com/asyncfx/async/internal/status"
)

// Void is the result type of operations that carry no value.
type Void = struct{}

// Option configures an operation at construction time.
type Option func(*opConfig)

type opConfig struct {
	state     any
	sched     Scheduler
	noDispose bool
}

// WithState attaches an opaque, caller-owned value to the operation,
// readable later through UserState. It's immutable after construction.
func WithState(state any) Option {
	return func(c *opConfig) { c.state = state }
}

// WithScheduler attaches the invoke-later capability used for the
// operation's completion callbacks, and inherited by its children.
func WithScheduler(s Scheduler) Option {
	return func(c *opConfig) { c.sched = s }
}

// WithoutDispose marks the operation as a shared instance whose Dispose
// calls are no-ops.
func WithoutDispose() Option {
	return func(c *opConfig) { c.noDispose = true }
}

func (c opConfig) flags() uint32 {
	if c.noDispose {
		return status.FlagDoNotDispose
	}
	return 0
}

// New returns a new operation in the Created status.
// The caller owns it until it's handed to consumers, and must settle it
// exactly once through one of the terminal setters.
func New[T any](opts ...Option) *Operation[T] {
	var cfg opConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Operation[T]{
		word:  status.NewWord(cfg.flags()),
		sched: cfg.sched,
		state: cfg.state,
	}
}

// newSettled returns an operation that's already settled, synchronously,
// with the provided outcome. The registry is drained up front, so that any
// later registration self-invokes immediately.
func newSettled[T any](c status.Code, val T, err error, opts []Option) *Operation[T] {
	var cfg opConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Operation[T]{
		word:  status.NewSettledWord(c, cfg.flags()),
		sched: cfg.sched,
		state: cfg.state,
		val:   val,
		err:   err,
	}
	p.drain()
	return p
}

// FromValue returns an operation that already ran to completion with val,
// flagged as completed synchronously.
func FromValue[T any](val T, opts ...Option) *Operation[T] {
	return newSettled(status.RanToCompletion, val, nil, opts)
}

// FromError returns an operation that's already faulted with err, flagged
// as completed synchronously. A nil err panics.
func FromError[T any](err error, opts ...Option) *Operation[T] {
	if err == nil {
		panic(nilErrorPanicMsg)
	}
	var zero T
	return newSettled(status.Faulted, zero, err, opts)
}

// FromCanceled returns an operation that's already canceled, flagged as
// completed synchronously.
func FromCanceled[T any](opts ...Option) *Operation[T] {
	var zero T
	return newSettled(status.Canceled, zero, ErrCanceled, opts)
}

// completedOp is the canonical already-completed operation.
// it's flagged do-not-dispose, so accidental disposal by any of its many
// consumers is a no-op.
var completedOp = FromValue(Void{}, WithoutDispose())

// Completed returns the shared, process-wide operation that already ran to
// completion. Completion callbacks registered on it run immediately and
// synchronously, and Dispose calls on it are no-ops.
func Completed() *Operation[Void] {
	return completedOp
}

// Run runs f on a new goroutine and returns the operation tracking it.
//
// The operation is marked Scheduled before the goroutine is spawned and
// Running once f starts. It then settles from f's return: successfully
// with its value, canceled if the error matches ErrCanceled or
// context.Canceled, and faulted otherwise. A panic in f faults the
// operation with a PanicError.
//
// It panics if f is nil.
func Run[T any](f func() (T, error), opts ...Option) *Operation[T] {
	if f == nil {
		panic(nilCallbackPanicMsg)
	}

	p := New[T](opts...)
	p.TrySetScheduled()
	go func() {
		p.TrySetRunning()
		defer func() {
			if v := recover(); v != nil {
				// re-raise if the operation has already settled: the panic
				// came from a completion callback, not from f, and must not
				// be dropped.
				if !p.TrySetError(panicToError(v)) {
					panic(v)
				}
			}
		}()

		val, err := f()
		switch {
		case err == nil:
			p.TrySetResult(val)
		case errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled):
			var zero T
			p.settle(status.Canceled, zero, err, false)
		default:
			p.TrySetError(err)
		}
	}()
	return p
}
