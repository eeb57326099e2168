package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/netmidi/netmidi-go/pkg/listener"
	"github.com/netmidi/netmidi-go/pkg/service"
)

// Default monitor timing.
const (
	DefaultInterval = 100 * time.Millisecond
	DefaultTimeout  = time.Second
)

// Change reports that an activity became active or inactive.
type Change struct {
	Name   string
	Active bool
	At     time.Time
}

// Listener receives activity changes. Implementations must be comparable.
type Listener interface {
	ActivityChanged(change Change)
}

type changeFunc struct {
	fn func(Change)
}

func (f *changeFunc) ActivityChanged(c Change) { f.fn(c) }

// OnActivityChange adapts a function into a Listener.
func OnActivityChange(fn func(Change)) Listener {
	return &changeFunc{fn: fn}
}

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	// Name of the monitor service (default "activity").
	Name string

	// Interval between polls.
	Interval time.Duration

	// Timeout is the observation window: an activity seen within Timeout
	// of now is active.
	Timeout time.Duration

	// Names to monitor. Empty means the source's ActivityNames at each poll.
	Names []string

	// Now returns the current time (default time.Now).
	Now func() time.Time

	// Logger for operational logs (optional).
	Logger *slog.Logger
}

// DefaultMonitorConfig returns the default monitor configuration.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Name:     "activity",
		Interval: DefaultInterval,
		Timeout:  DefaultTimeout,
	}
}

func (c *MonitorConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = "activity"
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Monitor polls a Source and fires a Change whenever an activity's liveness
// flips. It is a service; its goroutine runs only while ACTIVE.
type Monitor struct {
	*service.Lifecycle

	src       Source
	config    MonitorConfig
	listeners listener.Registry[Listener]

	mu     sync.Mutex
	state  map[string]bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMonitor creates a stopped monitor over src.
func NewMonitor(src Source, config MonitorConfig) *Monitor {
	config.applyDefaults()
	m := &Monitor{
		src:    src,
		config: config,
		state:  make(map[string]bool),
	}
	m.Lifecycle = service.NewLifecycle(config.Name, service.Hooks{
		Acquire: m.acquire,
		Release: m.release,
	}, config.Logger)
	return m
}

// AddListener registers l. Returns false if already registered.
func (m *Monitor) AddListener(l Listener) bool { return m.listeners.Add(l) }

// RemoveListener unregisters l. Returns false if unknown.
func (m *Monitor) RemoveListener(l Listener) bool { return m.listeners.Remove(l) }

// IsActive reports whether name was observed within the timeout, evaluated
// against the source right now.
func (m *Monitor) IsActive(name string) bool {
	return m.activeAt(name, m.config.Now())
}

// Timeout returns the observation window.
func (m *Monitor) Timeout() time.Duration { return m.config.Timeout }

func (m *Monitor) activeAt(name string, now time.Time) bool {
	last := m.src.LastActivity(name)
	if last.IsZero() {
		return false
	}
	return now.Sub(last) <= m.config.Timeout
}

func (m *Monitor) names() []string {
	if len(m.config.Names) > 0 {
		return m.config.Names
	}
	return m.src.ActivityNames()
}

func (m *Monitor) acquire() error {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.pollLoop(ctx)
	return nil
}

func (m *Monitor) release() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()

	now := m.config.Now()
	m.mu.Lock()
	clear(m.state)
	m.mu.Unlock()
	for _, name := range m.names() {
		m.fire(Change{Name: name, Active: false, At: now})
	}
}

func (m *Monitor) pollLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

// poll evaluates every monitored name once and fires the flips.
func (m *Monitor) poll() {
	now := m.config.Now()

	var changes []Change
	m.mu.Lock()
	for _, name := range m.names() {
		active := m.activeAt(name, now)
		if m.state[name] == active {
			continue
		}
		m.state[name] = active
		changes = append(changes, Change{Name: name, Active: active, At: now})
	}
	m.mu.Unlock()

	for _, c := range changes {
		m.fire(c)
	}
}

func (m *Monitor) fire(c Change) {
	for _, l := range m.listeners.Snapshot() {
		l.ActivityChanged(c)
	}
}

// Compile-time interface satisfaction check.
var _ service.Service = (*Monitor)(nil)
