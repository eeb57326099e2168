package transport

import (
	"bytes"
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/service"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Port = 30000 + rand.IntN(20000)
	return cfg
}

func TestNewRejectsInvalidAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Group = "10.0.0.1"
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	cfg = DefaultConfig()
	cfg.Port = 70000
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDefaults(t *testing.T) {
	tr, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, Address{Group: "225.0.0.37", Port: 21928}, tr.Address())
	assert.Equal(t, "225.0.0.37:21928", tr.Address().String())
	assert.Equal(t, service.StatusStopped, tr.Status())
	assert.False(t, tr.config.DisableLoopback)
	assert.Equal(t, []string{ActivityTransmit, ActivityReceive}, tr.ActivityNames())
	assert.True(t, tr.LastActivity(activity.Any).IsZero())
}

func TestTransmitWhileStopped(t *testing.T) {
	tr, err := New(testConfig())
	require.NoError(t, err)

	assert.False(t, tr.Transmit([]byte{0x90, 60, 100}))
	assert.Zero(t, tr.TransmitQueueLen())
	assert.Equal(t, Stats{}, tr.Stats())
}

func TestTransmitQueueFullDrops(t *testing.T) {
	cfg := testConfig()
	cfg.TransmitQueueSize = 2
	tr, err := New(cfg)
	require.NoError(t, err)

	// A session with no goroutines draining its queues.
	s := &session{
		id: "test",
		rx: NewQueue[Message](cfg.ReceiveQueueSize, cfg.Overflow),
		tx: NewQueue[[]byte](cfg.TransmitQueueSize, cfg.Overflow),
	}
	tr.sess.Store(s)
	tr.SetStatus(service.StatusActive)
	defer func() {
		tr.sess.Store(nil)
		tr.SetStatus(service.StatusStopped)
	}()

	assert.True(t, tr.Transmit([]byte{1}))
	assert.True(t, tr.Transmit([]byte{2}))
	assert.False(t, tr.Transmit([]byte{3}))

	assert.Equal(t, 2, tr.TransmitQueueLen())
	assert.Equal(t, uint64(1), tr.Stats().TxDropped)
}

func TestTransmitCopiesPayload(t *testing.T) {
	tr, err := New(testConfig())
	require.NoError(t, err)
	s := &session{tx: NewQueue[[]byte](4, DropNewest)}
	tr.sess.Store(s)
	tr.SetStatus(service.StatusActive)

	payload := []byte{0x90, 60, 100}
	require.True(t, tr.Transmit(payload))
	payload[0] = 0x80

	got, err := s.tx.Take(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x90, 60, 100}, got)
}

func TestSetAddressWhileStopped(t *testing.T) {
	tr, err := New(testConfig())
	require.NoError(t, err)

	var changes []SettingsChange
	tr.AddSettingsListener(OnSettingsChange(func(c SettingsChange) {
		changes = append(changes, c)
	}))

	old := tr.Address()
	require.NoError(t, tr.SetGroup("239.1.2.3"))
	require.NoError(t, tr.SetPort(5004))
	require.NoError(t, tr.SetPort(5004))

	assert.Equal(t, Address{Group: "239.1.2.3", Port: 5004}, tr.Address())
	require.Len(t, changes, 2)
	assert.Equal(t, old, changes[0].Old)
	assert.Equal(t, service.StatusStopped, tr.Status())

	assert.ErrorIs(t, tr.SetGroup("192.168.1.1"), ErrInvalidArgument)
	assert.ErrorIs(t, tr.SetPort(0), ErrInvalidArgument)
	assert.Equal(t, Address{Group: "239.1.2.3", Port: 5004}, tr.Address())
	assert.Len(t, changes, 2)
}

// startOrSkip starts tr, skipping the test when the host cannot join a
// multicast group (e.g. sandboxes without a multicast route).
func startOrSkip(t *testing.T, tr *Transport) {
	t.Helper()
	if err := tr.Start(); err != nil {
		t.Skipf("multicast unavailable: %v", err)
	}
	t.Cleanup(tr.Stop)
}

func TestLoopbackDelivery(t *testing.T) {
	tr, err := New(testConfig())
	require.NoError(t, err)

	var mu sync.Mutex
	var got [][]byte
	tr.AddMessageListener(OnMessage(func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, m.Payload)
	}))

	startOrSkip(t, tr)
	assert.Equal(t, service.StatusActive, tr.Status())
	assert.NotEmpty(t, tr.SessionID())
	assert.NotNil(t, tr.LocalAddr())

	before := time.Now()
	noteOn := []byte{0x90, 0x3C, 0x64}
	require.True(t, tr.Transmit(noteOn))

	received := func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range got {
			if bytes.Equal(p, noteOn) {
				return true
			}
		}
		return false
	}
	if !assert.Eventually(t, received, 2*time.Second, 5*time.Millisecond) {
		t.Skip("multicast loopback did not deliver; host may filter multicast")
	}

	assert.False(t, tr.LastActivity(ActivityTransmit).Before(before))
	assert.False(t, tr.LastActivity(ActivityReceive).Before(before))
	assert.Equal(t, tr.LastActivity(activity.Any), maxTime(tr.LastActivity(ActivityTransmit), tr.LastActivity(ActivityReceive)))

	stats := tr.Stats()
	assert.GreaterOrEqual(t, stats.Transmitted, uint64(1))
	assert.GreaterOrEqual(t, stats.Received, uint64(1))
}

func TestOversizedDatagramIsDropped(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDatagramSize = 4
	tr, err := New(cfg)
	require.NoError(t, err)

	var mu sync.Mutex
	var got [][]byte
	tr.AddMessageListener(OnMessage(func(m Message) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, m.Payload)
	}))
	startOrSkip(t, tr)

	sysex := []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}
	noteOn := []byte{0x90, 0x3C, 0x64}
	require.True(t, tr.Transmit(sysex))
	require.True(t, tr.Transmit(noteOn))

	delivered := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}
	if !assert.Eventually(t, delivered, 2*time.Second, 5*time.Millisecond) {
		t.Skip("multicast loopback did not deliver; host may filter multicast")
	}

	assert.Eventually(t, func() bool { return tr.Stats().Truncated == 1 }, 2*time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]byte{noteOn}, got)
}

func TestStopStartCreatesFreshSession(t *testing.T) {
	tr, err := New(testConfig())
	require.NoError(t, err)
	startOrSkip(t, tr)

	first := tr.SessionID()
	tr.Stop()
	assert.Equal(t, service.StatusStopped, tr.Status())
	assert.Empty(t, tr.SessionID())
	assert.False(t, tr.Transmit([]byte{0xC0, 1}))

	require.NoError(t, tr.Start())
	assert.NotEqual(t, first, tr.SessionID())
	assert.Zero(t, tr.TransmitQueueLen())
}

func TestSetAddressWhileActiveRestarts(t *testing.T) {
	tr, err := New(testConfig())
	require.NoError(t, err)
	startOrSkip(t, tr)

	var statuses []service.Status
	var mu sync.Mutex
	tr.AddStatusListener(service.OnStatusChange(func(c service.StatusChange) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, c.New)
	}))

	first := tr.SessionID()
	require.NoError(t, tr.SetPort(tr.Address().Port+1))

	assert.Equal(t, service.StatusActive, tr.Status())
	assert.NotEqual(t, first, tr.SessionID())
	mu.Lock()
	assert.Equal(t, []service.Status{service.StatusStopped, service.StatusActive}, statuses)
	mu.Unlock()
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
