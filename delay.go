package async

import "time"

// Timer is the consumed create-timer capability of the Delay operation: it
// schedules fn to run once, after at least d. The core state machine never
// touches it.
type Timer interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerFunc adapts a plain function to the Timer interface.
type TimerFunc func(d time.Duration, fn func())

func (f TimerFunc) AfterFunc(d time.Duration, fn func()) { f(d, fn) }

// stdTimer is the default Timer, backed by the runtime timers.
type stdTimer struct{}

func (stdTimer) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Delay returns an operation that runs to completion after at least d.
func Delay(d time.Duration, opts ...Option) *Operation[Void] {
	return DelayOn(stdTimer{}, d, opts...)
}

// DelayOn is like Delay, with an explicit Timer capability.
// It panics if t is nil.
func DelayOn(t Timer, d time.Duration, opts ...Option) *Operation[Void] {
	if t == nil {
		panic(nilTimerPanicMsg)
	}

	p := New[Void](opts...)
	p.TrySetScheduled()
	t.AfterFunc(d, func() {
		p.TrySetResult(Void{})
	})
	return p
}
