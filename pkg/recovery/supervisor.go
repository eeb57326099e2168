package recovery

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/netmidi/netmidi-go/pkg/service"
)

// DefaultStableAfter is how long a restarted target must stay up before the
// backoff resets.
const DefaultStableAfter = 10 * time.Second

// Config configures a Supervisor.
type Config struct {
	// Name of the supervisor service (default "supervisor").
	Name string

	Backoff BackoffConfig

	// StableAfter resets the backoff when the target failed no sooner than
	// this after the previous restart.
	StableAfter time.Duration

	// Logger for operational logs (optional).
	Logger *slog.Logger
}

// Supervisor restarts its target whenever the target reaches ERROR.
type Supervisor struct {
	*service.Lifecycle

	target  service.Service
	config  Config
	backoff *Backoff
	logger  *slog.Logger

	watcher  service.StatusListener
	kick     chan struct{}
	restarts atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSupervisor creates a stopped supervisor for target.
func NewSupervisor(target service.Service, config Config) *Supervisor {
	if config.Name == "" {
		config.Name = "supervisor"
	}
	if config.StableAfter <= 0 {
		config.StableAfter = DefaultStableAfter
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Supervisor{
		target:  target,
		config:  config,
		backoff: NewBackoff(config.Backoff),
		logger:  config.Logger,
		kick:    make(chan struct{}, 1),
	}
	// Runs under the target's status lock: signal only.
	s.watcher = service.OnStatusChange(func(c service.StatusChange) {
		if c.New == service.StatusError {
			s.signal()
		}
	})
	s.Lifecycle = service.NewLifecycle(config.Name, service.Hooks{
		Acquire: s.acquire,
		Release: s.release,
	}, config.Logger)
	return s
}

// Restarts returns how many times the target was restarted successfully.
func (s *Supervisor) Restarts() uint64 { return s.restarts.Load() }

func (s *Supervisor) signal() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Supervisor) acquire() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.target.AddStatusListener(s.watcher)
	if s.target.Status() == service.StatusError {
		s.signal()
	}

	s.wg.Add(1)
	go s.run(ctx)
	return nil
}

func (s *Supervisor) release() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	s.target.RemoveStatusListener(s.watcher)
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	select {
	case <-s.kick:
	default:
	}
}

func (s *Supervisor) run(ctx context.Context) {
	defer s.wg.Done()

	var lastRestart time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
		}

		if !lastRestart.IsZero() && time.Since(lastRestart) >= s.config.StableAfter {
			s.backoff.Reset()
		}
		delay := s.backoff.Next()
		s.logger.Info("target failed, scheduling restart",
			"target", s.target.Name(), "delay", delay, "attempt", s.backoff.Attempts())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if s.target.Status() != service.StatusError {
			continue
		}
		if err := s.target.Restart(); err != nil {
			// A failed restart leaves the target in ERROR, which signals again.
			s.logger.Warn("restart failed", "target", s.target.Name(), "error", err)
			continue
		}
		lastRestart = time.Now()
		s.restarts.Add(1)
		s.logger.Info("target restarted", "target", s.target.Name())
	}
}

// Compile-time interface satisfaction check.
var _ service.Service = (*Supervisor)(nil)
