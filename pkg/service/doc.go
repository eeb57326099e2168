// Package service defines the lifecycle contract shared by every component
// of the runtime.
//
// A service is always in one of three states:
//
//	STOPPED -> ACTIVE   Start acquired its resources
//	ACTIVE  -> STOPPED  Stop released them
//	ACTIVE  -> ERROR    a background failure (Lifecycle.Fail)
//	ERROR   -> STOPPED  Stop, Restart or Toggle
//
// ERROR is sticky: Start refuses to run from ERROR and Toggle stops rather
// than starts. The owner decides when to retry.
//
// Concrete services embed a *Lifecycle and supply Hooks for acquiring and
// releasing their resources. A Composite aggregates background tasks and
// child services into one service whose failure state follows its children.
//
// Status listeners are called synchronously while the notifying service holds
// its status lock. A listener must not call Start, Stop, Restart, Toggle or
// Destroy on the service that is notifying it; hand the work to a goroutine
// instead.
package service
