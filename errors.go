package async

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is the stored error of an operation that ended in the
	// Canceled status through SetCanceled or TrySetCanceled.
	ErrCanceled = errors.New("async: operation canceled")

	// ErrAlreadySettled is the panic value of the must-style setters when
	// another terminal transition has already won.
	ErrAlreadySettled = errors.New("async: operation already settled")

	// ErrNotSettled is the panic value of calls that require a settled
	// operation, like disposing one that's still in flight, or reading an
	// awaiter's result early.
	ErrNotSettled = errors.New("async: operation not settled")

	// ErrDisposed is the panic value of any access to a disposed operation.
	ErrDisposed = errors.New("async: operation disposed")

	// ErrNotSupported is returned from RemoveCompletionCallback: registered
	// continuations cannot be un-registered.
	ErrNotSupported = errors.New("async: callback removal is not supported")
)

// panic messages
const (
	nilCallbackPanicMsg  = "async: the provided callback is nil"
	nilErrorPanicMsg     = "async: the provided error is nil"
	nilTimerPanicMsg     = "async: the provided timer is nil"
	nilOperationPanicMsg = "async: the provided operation is nil"
)

// PanicError wraps a value recovered from a panicking callback.
// A child operation whose callback panics is faulted with a PanicError,
// and a raw completion callback that panics during the drain surfaces a
// PanicError on the completer's goroutine, after the drain finishes.
type PanicError struct {
	V any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("async: callback panicked: %v", e.V)
}

// Unwrap returns the panic value, if it was itself an error.
func (e PanicError) Unwrap() error {
	if err, ok := e.V.(error); ok {
		return err
	}
	return nil
}

// panicToError converts a recovered panic value to the error stored on the
// affected operation, preserving PanicError values as they are.
func panicToError(v any) error {
	if pe, ok := v.(PanicError); ok {
		return pe
	}
	return PanicError{V: v}
}
