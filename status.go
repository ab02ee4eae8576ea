package async

import "github.com/asyncfx/async/internal/status"

// Status is the lifecycle status of an Operation, at the time it's read.
type Status uint32

const (
	// Created is the initial status of every operation.
	Created Status = Status(status.Created)

	// Scheduled marks that the producer has queued the work.
	Scheduled Status = Status(status.Scheduled)

	// Running marks that the producer has started the work.
	Running Status = Status(status.Running)

	// RanToCompletion is the terminal status of a successful operation.
	RanToCompletion Status = Status(status.RanToCompletion)

	// Canceled is the terminal status of a canceled operation.
	Canceled Status = Status(status.Canceled)

	// Faulted is the terminal status of a failed operation.
	Faulted Status = Status(status.Faulted)
)

// IsTerminal returns true for RanToCompletion, Canceled, and Faulted.
// Once an operation reports a terminal status, its status, result, and
// error never change again.
func (s Status) IsTerminal() bool {
	return s >= RanToCompletion
}

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case RanToCompletion:
		return "ranToCompletion"
	case Canceled:
		return "canceled"
	case Faulted:
		return "faulted"
	default:
		return "<unknown status>"
	}
}
