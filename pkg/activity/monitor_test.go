package activity

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmidi/netmidi-go/pkg/service"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type changeLog struct {
	mu      sync.Mutex
	changes []Change
}

func (l *changeLog) ActivityChanged(c Change) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, c)
}

func (l *changeLog) all() []Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Change(nil), l.changes...)
}

func newTestMonitor(src Source, clock *fakeClock) *Monitor {
	return NewMonitor(src, MonitorConfig{
		Interval: time.Hour,
		Timeout:  time.Second,
		Now:      clock.Now,
	})
}

func TestMonitorIsActive(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	rec := NewRecord("receive", "transmit")
	m := newTestMonitor(rec, clock)

	assert.False(t, m.IsActive("receive"), "never observed")

	rec.TouchAt("receive", clock.Now().Add(-500*time.Millisecond))
	assert.True(t, m.IsActive("receive"))

	rec.TouchAt("transmit", clock.Now().Add(-2*time.Second))
	assert.False(t, m.IsActive("transmit"))

	assert.True(t, m.IsActive(Any))

	clock.Advance(time.Second)
	assert.False(t, m.IsActive("receive"))
}

func TestMonitorPollFiresOnlyFlips(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	rec := NewRecord("receive")
	m := newTestMonitor(rec, clock)
	log := &changeLog{}
	m.AddListener(log)

	m.poll()
	assert.Empty(t, log.all(), "inactive to inactive is not a change")

	rec.TouchAt("receive", clock.Now())
	m.poll()
	m.poll()
	require.Len(t, log.all(), 1)
	assert.Equal(t, Change{Name: "receive", Active: true, At: clock.Now()}, log.all()[0])

	clock.Advance(2 * time.Second)
	m.poll()
	require.Len(t, log.all(), 2)
	assert.False(t, log.all()[1].Active)
}

func TestMonitorStopFiresInactiveForEveryActivity(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	rec := NewRecord("receive", "transmit", "rx error")
	rec.TouchAt("receive", clock.Now())
	m := newTestMonitor(rec, clock)
	log := &changeLog{}
	m.AddListener(log)

	require.NoError(t, m.Start())
	assert.Equal(t, service.StatusActive, m.Status())
	assert.Eventually(t, func() bool { return len(log.all()) == 1 }, time.Second, time.Millisecond)

	m.Stop()
	assert.Equal(t, service.StatusStopped, m.Status())

	changes := log.all()
	require.Len(t, changes, 4)
	final := map[string]bool{}
	for _, c := range changes[1:] {
		final[c.Name] = c.Active
	}
	assert.Equal(t, map[string]bool{"receive": false, "transmit": false, "rx error": false}, final)
}

func TestMonitorExplicitNames(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	rec := NewRecord("a", "b")
	m := NewMonitor(rec, MonitorConfig{Names: []string{Any}, Timeout: time.Second, Now: clock.Now, Interval: time.Hour})
	log := &changeLog{}
	m.AddListener(log)

	rec.TouchAt("b", clock.Now())
	m.poll()

	require.Len(t, log.all(), 1)
	assert.Equal(t, Any, log.all()[0].Name)
	assert.True(t, log.all()[0].Active)
}

func TestMonitorPollsOnInterval(t *testing.T) {
	rec := NewRecord("receive")
	m := NewMonitor(rec, MonitorConfig{Interval: 5 * time.Millisecond, Timeout: time.Minute})
	log := &changeLog{}
	m.AddListener(log)

	require.NoError(t, m.Start())
	defer m.Stop()

	rec.Touch("receive")
	assert.Eventually(t, func() bool {
		for _, c := range log.all() {
			if c.Name == "receive" && c.Active {
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)
}

func TestDefaultMonitorConfig(t *testing.T) {
	cfg := DefaultMonitorConfig()
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}
