package service

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netmidi/netmidi-go/pkg/listener"
	"github.com/netmidi/netmidi-go/pkg/log"
)

// Hooks are the component-specific halves of Start and Stop.
type Hooks struct {
	// Acquire obtains resources and launches goroutines. On error the
	// lifecycle calls Release and moves to ERROR.
	Acquire func() error

	// Release frees whatever Acquire obtained. It must tolerate partially
	// acquired state and repeated calls.
	Release func()
}

// Lifecycle implements Service on top of Hooks. Embed a *Lifecycle to make a
// component a Service.
//
// Status reads are lock-free. Lifecycle operations are serialized by one
// mutex; status writes and listener delivery by another, so background
// goroutines can call Fail while an operation is in flight.
type Lifecycle struct {
	name   string
	hooks  Hooks
	logger *slog.Logger

	status atomic.Uint32

	opMu     sync.Mutex // Start, Stop, Restart, Toggle, Destroy
	statusMu sync.Mutex // status writes, listener delivery, capture

	listeners     listener.Registry[StatusListener]
	capture       log.Logger
	undestroyable atomic.Bool
}

// NewLifecycle creates a lifecycle in the STOPPED state.
// A nil logger discards output.
func NewLifecycle(name string, hooks Hooks, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Lifecycle{
		name:    name,
		hooks:   hooks,
		logger:  logger,
		capture: log.NoopLogger{},
	}
}

// Name returns the service name.
func (l *Lifecycle) Name() string { return l.name }

// Status returns the current status.
func (l *Lifecycle) Status() Status { return Status(l.status.Load()) }

// Logger returns the operational logger.
func (l *Lifecycle) Logger() *slog.Logger { return l.logger }

// SetProtocolLogger records status changes into a protocol capture.
func (l *Lifecycle) SetProtocolLogger(capture log.Logger) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.capture = log.OrNoop(capture)
}

// SetDestroyable controls whether Destroy is supported. Services are
// destroyable by default.
func (l *Lifecycle) SetDestroyable(ok bool) {
	l.undestroyable.Store(!ok)
}

// AddStatusListener registers a listener. Returns false if already registered.
func (l *Lifecycle) AddStatusListener(sl StatusListener) bool {
	return l.listeners.Add(sl)
}

// RemoveStatusListener unregisters a listener. Returns false if unknown.
func (l *Lifecycle) RemoveStatusListener(sl StatusListener) bool {
	return l.listeners.Remove(sl)
}

// Start implements Service.
func (l *Lifecycle) Start() error {
	l.opMu.Lock()
	defer l.opMu.Unlock()
	return l.start()
}

// Stop implements Service.
func (l *Lifecycle) Stop() {
	l.opMu.Lock()
	defer l.opMu.Unlock()
	l.stop()
}

// Restart implements Service.
func (l *Lifecycle) Restart() error {
	l.opMu.Lock()
	defer l.opMu.Unlock()
	l.stopWith(ErrRestarting)
	return l.start()
}

// Toggle implements Service.
func (l *Lifecycle) Toggle() error {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	switch l.Status() {
	case StatusStopped:
		return l.start()
	default:
		l.stop()
		return nil
	}
}

// Destroy implements Service.
func (l *Lifecycle) Destroy() error {
	if l.undestroyable.Load() {
		return fmt.Errorf("%s: %w", l.name, ErrUnsupported)
	}
	l.listeners.Clear()
	l.Stop()
	return nil
}

// Fail forces the service into ERROR. It is a no-op if already in ERROR.
// Safe to call from any goroutine, including status listeners of other
// services.
func (l *Lifecycle) Fail(err error) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()

	if l.Status() == StatusError {
		return
	}
	l.logger.Warn("service failed", "service", l.name, "error", err)
	l.transitionLocked(StatusError, err)
}

// SetStatus moves the service to s and notifies listeners. A transition to
// the current status is suppressed.
func (l *Lifecycle) SetStatus(s Status) {
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.transitionLocked(s, nil)
}

func (l *Lifecycle) start() error {
	switch l.Status() {
	case StatusActive:
		return nil
	case StatusError:
		return fmt.Errorf("%w: %s must be stopped before it can start", ErrFailed, l.name)
	}

	l.logger.Info("starting service", "service", l.name)
	if l.hooks.Acquire != nil {
		if err := l.hooks.Acquire(); err != nil {
			l.release()
			l.Fail(err)
			return fmt.Errorf("start %s: %w", l.name, err)
		}
	}

	l.statusMu.Lock()
	defer l.statusMu.Unlock()

	// A background goroutine may already have failed the service.
	if l.Status() != StatusStopped {
		return fmt.Errorf("%w: %s failed while starting", ErrFailed, l.name)
	}
	l.transitionLocked(StatusActive, nil)
	return nil
}

func (l *Lifecycle) stop() {
	l.stopWith(nil)
}

func (l *Lifecycle) stopWith(cause error) {
	if l.Status() == StatusStopped {
		return
	}
	l.logger.Info("stopping service", "service", l.name)
	l.release()

	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	l.transitionLocked(StatusStopped, cause)
}

func (l *Lifecycle) release() {
	if l.hooks.Release != nil {
		l.hooks.Release()
	}
}

func (l *Lifecycle) transitionLocked(next Status, cause error) {
	old := l.Status()
	if old == next {
		l.logger.Debug("suppressed status change", "service", l.name, "status", next)
		return
	}
	l.status.Store(uint32(next))

	change := StatusChange{Name: l.name, Old: old, New: next, Err: cause}

	ev := log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerService,
		Category:  log.CategoryState,
		Service:   l.name,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityService,
			OldState: old.String(),
			NewState: next.String(),
		},
	}
	if cause != nil {
		ev.StateChange.Reason = cause.Error()
	}
	l.capture.Log(ev)

	for _, sl := range l.listeners.Snapshot() {
		sl.StatusChanged(change)
	}
}

// Compile-time interface satisfaction check.
var _ Service = (*Lifecycle)(nil)
