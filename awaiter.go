package async

// Awaiter is the minimal bridge a cooperative suspension mechanism needs to
// resume work once an operation settles: poll IsCompleted, schedule a
// resumption through OnCompleted, and collect the outcome with Result.
// It knows nothing about any particular coroutine machinery.
type Awaiter[T any] struct {
	op *Operation[T]
}

// Awaiter returns the awaiter view of the operation.
func (p *Operation[T]) Awaiter() Awaiter[T] {
	p.load()
	return Awaiter[T]{op: p}
}

// IsCompleted returns true once the operation has settled.
func (a Awaiter[T]) IsCompleted() bool {
	return a.op.IsCompleted()
}

// OnCompleted schedules fn to run once the operation settles, or
// immediately and synchronously if it already has.
// It panics if fn is nil.
func (a Awaiter[T]) OnCompleted(fn func()) {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}
	a.op.AddCompletionCallback(func(*Operation[T]) { fn() })
}

// Result returns the settled outcome: the stored value on success, or the
// stored error on a fault or cancellation.
// Unlike Operation.Result, it never blocks: calling it before the
// operation settles panics with ErrNotSettled. It's meant to be called
// from an OnCompleted resumption, or after IsCompleted reports true.
func (a Awaiter[T]) Result() (T, error) {
	if !a.op.IsCompleted() {
		panic(ErrNotSettled)
	}
	return a.op.val, a.op.err
}
