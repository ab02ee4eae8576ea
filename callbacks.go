package async

// Scheduler is the consumed invoke-later capability: it marshals a
// completion callback onto whatever execution context it represents, like
// an owner goroutine's run loop.
//
// The library never provides its own Scheduler; absent one, callbacks run
// inline on the goroutine that settled the operation.
//
// Schedule must not block: a blocking Scheduler stalls the completer.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Schedule(fn func()) { f(fn) }
