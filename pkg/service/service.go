package service

// Service is the lifecycle contract implemented by every component.
type Service interface {
	// Name returns a short identifier used in logs and status changes.
	Name() string

	// Status returns the current status. It never blocks.
	Status() Status

	// Start acquires resources and moves STOPPED to ACTIVE.
	// It is a no-op when already ACTIVE and fails with ErrFailed from ERROR.
	Start() error

	// Stop releases resources and sets STOPPED, from ACTIVE or ERROR.
	// It is a no-op when already STOPPED.
	Stop()

	// Restart stops then starts as one exclusive operation.
	Restart() error

	// Toggle stops an ACTIVE or ERROR service and starts a STOPPED one.
	Toggle() error

	// Destroy drops all status listeners without notifying them and stops.
	Destroy() error

	AddStatusListener(l StatusListener) bool
	RemoveStatusListener(l StatusListener) bool
}
