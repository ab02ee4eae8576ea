package async

import (
	"fmt"
	"sync/atomic"

	"github.com/asyncfx/async/internal/uniquerand"
)

// IdxVal is a positional result view: the value of the operation at index
// Idx within the list originally passed to Any.
type IdxVal[T any] struct {
	Idx int
	Val T
}

func (iv IdxVal[T]) String() string {
	return fmt.Sprintf("[%d]%v", iv.Idx, iv.Val)
}

// All returns an operation that completes with the values of all the
// provided operations, in their original order, once every one of them ran
// to completion. The first fault or cancellation among them settles the
// returned operation with that outcome instead, without waiting for the
// rest.
//
// With no operations, the returned operation is already completed with an
// empty slice.
//
// It panics if any of the provided operations is nil.
func All[T any](ops ...*Operation[T]) *Operation[[]T] {
	if anyNil(ops) {
		panic(nilOperationPanicMsg)
	}
	if len(ops) == 0 {
		return FromValue([]T{})
	}

	next := New[[]T]()
	vals := make([]T, len(ops))
	var pending atomic.Int64
	pending.Store(int64(len(ops)))

	// subscribe in a random order, so that a list of already-settled
	// operations doesn't always observe its first failure positionally.
	var order uniquerand.Int
	order.Reset(len(ops))
	for i, ok := order.Get(); ok; i, ok = order.Get() {
		i := i
		ops[i].AddCompletionCallback(func(op *Operation[T]) {
			if prevErr := failureOf(op); prevErr != nil {
				var zero []T
				next.settle(failureCode(op.Status()), zero, prevErr, false)
				return
			}
			vals[i] = op.val
			// the last decrement observes every vals write that preceded
			// its counterpart's decrement.
			if pending.Add(-1) == 0 {
				next.TrySetResult(vals)
			}
		})
	}
	return next
}

// Any returns an operation that adopts the outcome of whichever of the
// provided operations settles first: its value and original index on
// success, or its fault/cancellation outcome. The operations are visited
// in a random order, so ties between already-settled operations don't
// always favor the first one in the list.
//
// With no operations, the returned operation is already canceled.
//
// It panics if any of the provided operations is nil.
func Any[T any](ops ...*Operation[T]) *Operation[IdxVal[T]] {
	if anyNil(ops) {
		panic(nilOperationPanicMsg)
	}
	if len(ops) == 0 {
		return FromCanceled[IdxVal[T]]()
	}

	next := New[IdxVal[T]]()
	var order uniquerand.Int
	order.Reset(len(ops))
	for i, ok := order.Get(); ok; i, ok = order.Get() {
		i := i
		ops[i].AddCompletionCallback(func(op *Operation[T]) {
			if prevErr := failureOf(op); prevErr != nil {
				var zero IdxVal[T]
				next.settle(failureCode(op.Status()), zero, prevErr, false)
				return
			}
			next.TrySetResult(IdxVal[T]{Idx: i, Val: op.val})
		})
	}
	return next
}

// WaitAll blocks until all the provided operations settle.
// It reports false if no operations were provided.
func WaitAll[T any](ops ...*Operation[T]) (waited bool) {
	if len(ops) == 0 {
		return false
	}
	for _, op := range ops {
		op.Wait()
	}
	return true
}

func anyNil[T any](ops []*Operation[T]) bool {
	for _, op := range ops {
		if op == nil {
			return true
		}
	}
	return false
}
