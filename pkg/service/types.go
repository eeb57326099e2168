package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	// ErrFailed is returned by Start when the service is in, or reached,
	// the ERROR state. Stop (or Restart) clears it.
	ErrFailed = errors.New("service failed")

	// ErrUnsupported is returned by Destroy on services that cannot be destroyed.
	ErrUnsupported = fmt.Errorf("service: destroy %w", errors.ErrUnsupported)

	// ErrChildFailed is the cause recorded when a composite member regresses.
	ErrChildFailed = errors.New("child service failed")

	// ErrRestarting is the cause carried by the STOPPED change that Restart
	// passes through. Composites do not treat it as a regression.
	ErrRestarting = errors.New("service restarting")
)

// Status is the lifecycle state of a service.
type Status uint32

const (
	// StatusStopped - no resources held. Every service starts here.
	StatusStopped Status = iota

	// StatusActive - resources acquired, service running.
	StatusActive

	// StatusError - the service failed and must be stopped before it can start again.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "STOPPED"
	case StatusActive:
		return "ACTIVE"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StatusChange describes one status transition. Old never equals New.
type StatusChange struct {
	// Name identifies the service that changed.
	Name string
	Old  Status
	New  Status

	// Err is the failure cause for transitions into ERROR.
	Err error
}

// StatusListener receives status changes.
//
// Implementations must be comparable; registries use them as set members.
// Use pointer receivers or OnStatusChange.
type StatusListener interface {
	StatusChanged(change StatusChange)
}

type statusFunc struct {
	fn func(StatusChange)
}

func (f *statusFunc) StatusChanged(change StatusChange) { f.fn(change) }

// OnStatusChange adapts a function into a StatusListener. Keep the returned
// value to remove the listener later.
func OnStatusChange(fn func(StatusChange)) StatusListener {
	return &statusFunc{fn: fn}
}
