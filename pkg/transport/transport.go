package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/ipv4"

	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/listener"
	"github.com/netmidi/netmidi-go/pkg/log"
	"github.com/netmidi/netmidi-go/pkg/service"
)

// ErrInvalidArgument is returned for invalid settings.
var ErrInvalidArgument = errors.New("invalid argument")

// Transport is a UDP multicast service. See the package documentation for
// its goroutine model.
type Transport struct {
	*service.Lifecycle

	config  Config
	logger  *slog.Logger
	capture log.Logger

	addrMu sync.Mutex
	addr   Address

	sess      atomic.Pointer[session]
	listeners listener.Registry[MessageListener]
	settings  listener.Registry[SettingsListener]
	activity  *activity.Record
	stats     counters
}

// session holds everything acquired by one start.
type session struct {
	id      string
	raw     net.PacketConn
	conn    *ipv4.PacketConn
	dst     *net.UDPAddr
	rx      *Queue[Message]
	tx      *Queue[[]byte]
	mustRun atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a stopped transport. Invalid group or port settings fail with
// ErrInvalidArgument.
func New(config Config) (*Transport, error) {
	config.applyDefaults()
	addr := Address{Group: config.Group, Port: config.Port}
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{
		config:   config,
		logger:   config.Logger,
		capture:  config.ProtocolLogger,
		addr:     addr,
		activity: activity.NewRecord(ActivityTransmit, ActivityReceive),
	}
	t.Lifecycle = service.NewLifecycle(config.Name, service.Hooks{
		Acquire: t.acquire,
		Release: t.release,
	}, config.Logger)
	t.Lifecycle.SetProtocolLogger(config.ProtocolLogger)
	return t, nil
}

// Address returns the configured group and port.
func (t *Transport) Address() Address {
	t.addrMu.Lock()
	defer t.addrMu.Unlock()
	return t.addr
}

// SetGroup changes the multicast group. See SetAddress.
func (t *Transport) SetGroup(group string) error {
	return t.SetAddress(group, t.Address().Port)
}

// SetPort changes the UDP port. See SetAddress.
func (t *Transport) SetPort(port int) error {
	return t.SetAddress(t.Address().Group, port)
}

// SetAddress changes the group and port. While ACTIVE the transport
// restarts so the new binding takes effect; otherwise the change is only
// recorded. Settings listeners see every accepted change.
func (t *Transport) SetAddress(group string, port int) error {
	next := Address{Group: group, Port: port}
	if err := next.Validate(); err != nil {
		return err
	}

	t.addrMu.Lock()
	old := t.addr
	t.addr = next
	t.addrMu.Unlock()

	if old == next {
		return nil
	}
	t.logger.Info("transport address changed", "old", old.String(), "new", next.String())
	for _, l := range t.settings.Snapshot() {
		l.SettingsChanged(SettingsChange{Old: old, New: next})
	}

	if t.Status() == service.StatusActive {
		return t.Restart()
	}
	return nil
}

// AddMessageListener registers l. Returns false if already registered.
func (t *Transport) AddMessageListener(l MessageListener) bool { return t.listeners.Add(l) }

// RemoveMessageListener unregisters l. Returns false if unknown.
func (t *Transport) RemoveMessageListener(l MessageListener) bool { return t.listeners.Remove(l) }

// AddSettingsListener registers l. Returns false if already registered.
func (t *Transport) AddSettingsListener(l SettingsListener) bool { return t.settings.Add(l) }

// RemoveSettingsListener unregisters l. Returns false if unknown.
func (t *Transport) RemoveSettingsListener(l SettingsListener) bool { return t.settings.Remove(l) }

// Transmit queues payload for sending to the group. It never blocks and
// returns false when the transport is not ACTIVE or the queue refused the
// payload.
func (t *Transport) Transmit(payload []byte) bool {
	if t.Status() != service.StatusActive {
		return false
	}
	s := t.sess.Load()
	if s == nil {
		return false
	}

	accepted, overflow := s.tx.Offer(bytes.Clone(payload))
	if overflow {
		t.stats.txDropped.Add(1)
		t.logger.Warn("transmit queue full, dropping datagram",
			"policy", t.config.Overflow.String(), "capacity", s.tx.Cap())
		t.capture.Log(log.NewErrorEvent(t.Name(), log.LayerTransport,
			errors.New("transmit queue full"), "transmit"))
	}
	return accepted
}

// LastActivity implements activity.Source.
func (t *Transport) LastActivity(name string) time.Time { return t.activity.Last(name) }

// ActivityNames implements activity.Source.
func (t *Transport) ActivityNames() []string { return t.activity.Names() }

// Stats returns cumulative counters.
func (t *Transport) Stats() Stats { return t.stats.snapshot() }

// SessionID returns the id of the running session, or "" when stopped.
func (t *Transport) SessionID() string {
	if s := t.sess.Load(); s != nil {
		return s.id
	}
	return ""
}

// LocalAddr returns the bound socket address, or nil when stopped.
func (t *Transport) LocalAddr() net.Addr {
	if s := t.sess.Load(); s != nil {
		return s.raw.LocalAddr()
	}
	return nil
}

// TransmitQueueLen returns the number of datagrams waiting to be sent.
func (t *Transport) TransmitQueueLen() int {
	if s := t.sess.Load(); s != nil {
		return s.tx.Len()
	}
	return 0
}

func (t *Transport) acquire() error {
	addr := t.Address()

	var ifi *net.Interface
	if t.config.Interface != "" {
		var err error
		ifi, err = net.InterfaceByName(t.config.Interface)
		if err != nil {
			return fmt.Errorf("lookup interface %s: %w", t.config.Interface, err)
		}
	}

	lc := net.ListenConfig{Control: reuseControl}
	pc, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(addr.Port)))
	if err != nil {
		return fmt.Errorf("bind port %d: %w", addr.Port, err)
	}

	conn := ipv4.NewPacketConn(pc)
	if err := configureMulticast(conn, ifi, addr, t.config); err != nil {
		conn.Close()
		return err
	}

	s := &session{
		id:   uuid.New().String(),
		raw:  pc,
		conn: conn,
		dst:  addr.UDPAddr(),
		rx:   NewQueue[Message](t.config.ReceiveQueueSize, t.config.Overflow),
		tx:   NewQueue[[]byte](t.config.TransmitQueueSize, t.config.Overflow),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.mustRun.Store(true)
	t.sess.Store(s)

	t.logSession(s, "OPEN")
	t.logger.Info("joined multicast group", "group", addr.String(), "session", s.id)

	s.wg.Add(3)
	go t.receiveLoop(s)
	go t.deliverLoop(s)
	go t.transmitLoop(s)
	return nil
}

func configureMulticast(conn *ipv4.PacketConn, ifi *net.Interface, addr Address, cfg Config) error {
	if err := conn.JoinGroup(ifi, &net.UDPAddr{IP: net.ParseIP(addr.Group).To4()}); err != nil {
		return fmt.Errorf("join group %s: %w", addr.Group, err)
	}
	if ifi != nil {
		if err := conn.SetMulticastInterface(ifi); err != nil {
			return fmt.Errorf("set multicast interface: %w", err)
		}
	}
	if err := conn.SetMulticastLoopback(!cfg.DisableLoopback); err != nil {
		return fmt.Errorf("set multicast loopback: %w", err)
	}
	if err := conn.SetMulticastTTL(cfg.TTL); err != nil {
		return fmt.Errorf("set multicast ttl: %w", err)
	}
	return nil
}

func (t *Transport) release() {
	s := t.sess.Swap(nil)
	if s == nil {
		return
	}

	s.mustRun.Store(false)
	s.cancel()
	s.conn.Close()
	s.wg.Wait()

	s.rx.Clear()
	s.tx.Clear()
	t.logSession(s, "CLOSED")
}

func (t *Transport) receiveLoop(s *session) {
	defer s.wg.Done()

	// One spare byte tells an oversized datagram from one that fits exactly.
	buf := make([]byte, t.config.MaxDatagramSize+1)
	for s.mustRun.Load() {
		n, _, src, err := s.conn.ReadFrom(buf)
		if err != nil {
			if !s.mustRun.Load() {
				return
			}
			t.ioFailure(s, "receive", err)
			return
		}
		if n > t.config.MaxDatagramSize {
			t.stats.truncated.Add(1)
			t.logger.Warn("datagram exceeds receive buffer, dropping",
				"source", addrString(src), "max", t.config.MaxDatagramSize)
			t.capture.Log(log.NewErrorEvent(t.Name(), log.LayerTransport,
				errors.New("datagram truncated"), "receive"))
			continue
		}

		msg := Message{
			Payload:  bytes.Clone(buf[:n]),
			Source:   src,
			Received: t.activity.Touch(ActivityReceive),
		}
		t.stats.received.Add(1)
		t.capture.Log(t.frameEvent(s, log.DirectionIn, addrString(src), msg.Payload))

		if _, overflow := s.rx.Offer(msg); overflow {
			t.stats.rxDropped.Add(1)
			t.logger.Warn("receive queue full, dropping datagram",
				"policy", t.config.Overflow.String(), "capacity", s.rx.Cap())
		}
	}
}

func (t *Transport) deliverLoop(s *session) {
	defer s.wg.Done()

	for {
		msg, err := s.rx.Take(s.ctx)
		if err != nil {
			return
		}
		for _, l := range t.listeners.Snapshot() {
			l.MessageReceived(msg)
		}
		t.stats.delivered.Add(1)
	}
}

func (t *Transport) transmitLoop(s *session) {
	defer s.wg.Done()

	for {
		payload, err := s.tx.Take(s.ctx)
		if err != nil {
			return
		}
		if _, err := s.conn.WriteTo(payload, nil, s.dst); err != nil {
			if !s.mustRun.Load() {
				return
			}
			t.stats.sendErrors.Add(1)
			t.ioFailure(s, "transmit", err)
			return
		}
		t.activity.Touch(ActivityTransmit)
		t.stats.transmitted.Add(1)
		t.capture.Log(t.frameEvent(s, log.DirectionOut, s.dst.String(), payload))
	}
}

// ioFailure reports a socket error from a session goroutine.
func (t *Transport) ioFailure(s *session, op string, err error) {
	t.logger.Warn("transport I/O failure", "op", op, "session", s.id, "error", err)
	ev := log.NewErrorEvent(t.Name(), log.LayerTransport, err, op)
	ev.SessionID = s.id
	t.capture.Log(ev)
	t.Fail(fmt.Errorf("%s: %w", op, err))
}

func (t *Transport) frameEvent(s *session, dir log.Direction, remote string, payload []byte) log.Event {
	ev := log.NewFrameEvent(s.id, dir, remote, payload)
	ev.Service = t.Name()
	return ev
}

func (t *Transport) logSession(s *session, state string) {
	t.capture.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  s.id,
		Layer:      log.LayerTransport,
		Category:   log.CategoryState,
		Service:    t.Name(),
		RemoteAddr: s.dst.String(),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntitySession,
			NewState: state,
		},
	})
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

// Compile-time interface satisfaction checks.
var (
	_ service.Service = (*Transport)(nil)
	_ activity.Source = (*Transport)(nil)
)
