package rawmidi

import (
	"bytes"
	"log/slog"
	"net"
	"time"

	"github.com/netmidi/netmidi-go/pkg/listener"
	"github.com/netmidi/netmidi-go/pkg/service"
	"github.com/netmidi/netmidi-go/pkg/transport"
)

// Direction of a raw message.
type Direction uint8

const (
	Receive Direction = iota
	Transmit
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Receive:
		return "RECEIVE"
	case Transmit:
		return "TRANSMIT"
	default:
		return "UNKNOWN"
	}
}

// Event is a raw MIDI message seen by the service.
type Event struct {
	Direction Direction
	Data      []byte

	// Source is the sender of a received message; nil for transmit.
	Source net.Addr
	At     time.Time
}

// Listener receives raw messages. Received messages arrive on the
// transport's delivery goroutine; transmitted ones on the sender's.
// Implementations must be comparable.
type Listener interface {
	RawMessage(ev Event)
}

type rawFunc struct {
	fn func(Event)
}

func (f *rawFunc) RawMessage(ev Event) { f.fn(ev) }

// OnRawMessage adapts a function into a Listener.
func OnRawMessage(fn func(Event)) Listener {
	return &rawFunc{fn: fn}
}

// Config configures a Service.
type Config struct {
	// Name of the service (default "rawmidi").
	Name string

	// Transport configures the underlying multicast transport.
	Transport transport.Config

	// Logger for operational logs (optional). Also used by the transport
	// when Transport.Logger is nil.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Name:      "rawmidi",
		Transport: transport.DefaultConfig(),
	}
}

// Service sends and receives raw MIDI messages over one Transport.
type Service struct {
	*service.Composite

	transport *transport.Transport
	listeners listener.Registry[Listener]
	logger    *slog.Logger
}

// New creates a stopped service and its transport.
func New(config Config) (*Service, error) {
	if config.Name == "" {
		config.Name = "rawmidi"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Transport.Logger == nil {
		config.Transport.Logger = config.Logger
	}

	t, err := transport.New(config.Transport)
	if err != nil {
		return nil, err
	}

	s := &Service{
		Composite: service.NewComposite(config.Name, config.Logger),
		transport: t,
		logger:    config.Logger,
	}
	t.AddMessageListener(transport.OnMessage(s.received))
	if err := s.AddChild(t); err != nil {
		return nil, err
	}
	return s, nil
}

// Transport returns the underlying transport.
func (s *Service) Transport() *transport.Transport { return s.transport }

// AddRawListener registers l. Returns false if already registered.
func (s *Service) AddRawListener(l Listener) bool { return s.listeners.Add(l) }

// RemoveRawListener unregisters l. Returns false if unknown.
func (s *Service) RemoveRawListener(l Listener) bool { return s.listeners.Remove(l) }

// SendRawMessage queues msg on the transport. It returns false when the
// service is not ACTIVE or the transport dropped the message.
func (s *Service) SendRawMessage(msg []byte) bool {
	if s.Status() != service.StatusActive {
		return false
	}
	if !s.transport.Transmit(msg) {
		return false
	}
	s.fire(Event{Direction: Transmit, Data: bytes.Clone(msg), At: time.Now()})
	return true
}

// Address returns the transport's group and port.
func (s *Service) Address() transport.Address { return s.transport.Address() }

// SetAddress rebinds the transport. A running transport restarts on its
// own; the service stays ACTIVE unless the new binding fails.
func (s *Service) SetAddress(group string, port int) error {
	return s.transport.SetAddress(group, port)
}

// LastActivity implements activity.Source over the transport's activities.
func (s *Service) LastActivity(name string) time.Time { return s.transport.LastActivity(name) }

// ActivityNames implements activity.Source.
func (s *Service) ActivityNames() []string { return s.transport.ActivityNames() }

// Stats returns the transport counters.
func (s *Service) Stats() transport.Stats { return s.transport.Stats() }

func (s *Service) received(m transport.Message) {
	s.fire(Event{Direction: Receive, Data: m.Payload, Source: m.Source, At: m.Received})
}

func (s *Service) fire(ev Event) {
	for _, l := range s.listeners.Snapshot() {
		l.RawMessage(ev)
	}
}
