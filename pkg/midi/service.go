package midi

import (
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/listener"
	"github.com/netmidi/netmidi-go/pkg/log"
	"github.com/netmidi/netmidi-go/pkg/rawmidi"
	"github.com/netmidi/netmidi-go/pkg/service"
	"github.com/netmidi/netmidi-go/pkg/wire"
)

// Activity names maintained by the MIDI service, in addition to the raw
// layer's "transmit" and "receive".
const (
	ActivityRxError       = "rx error"
	ActivityProgramChange = "program change"
	ActivityControlChange = "control change"
	ActivitySysEx         = "sysex"
)

var errMalformed = errors.New("malformed MIDI message")

// Raw is the raw MIDI layer the service is built on. *rawmidi.Service
// implements it.
type Raw interface {
	service.Service
	activity.Source

	SendRawMessage(msg []byte) bool
	AddRawListener(l rawmidi.Listener) bool
	RemoveRawListener(l rawmidi.Listener) bool
	SetAddress(group string, port int) error
}

// Config configures a Service.
type Config struct {
	// Name of the service (default "midi").
	Name string

	// Logger for operational logs (optional).
	Logger *slog.Logger

	// ProtocolLogger captures decoded messages and decode errors (optional).
	ProtocolLogger log.Logger
}

// Service encodes outgoing and dissects incoming MIDI messages on top of a
// Raw layer, which it owns as its only child.
type Service struct {
	*service.Composite

	raw       Raw
	listeners listener.Registry[Listener]
	activity  *activity.Record
	rxErrors  atomic.Uint64
	logger    *slog.Logger
	capture   log.Logger
}

// New creates a stopped service over raw.
func New(raw Raw, config Config) (*Service, error) {
	if config.Name == "" {
		config.Name = "midi"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Service{
		Composite: service.NewComposite(config.Name, config.Logger),
		raw:       raw,
		activity:  activity.NewRecord(ActivityRxError, ActivityProgramChange, ActivityControlChange, ActivitySysEx),
		logger:    config.Logger,
		capture:   log.OrNoop(config.ProtocolLogger),
	}
	s.Composite.SetProtocolLogger(config.ProtocolLogger)
	raw.AddRawListener(rawmidi.OnRawMessage(s.rawMessage))
	if err := s.AddChild(raw); err != nil {
		return nil, err
	}
	return s, nil
}

// Raw returns the raw layer.
func (s *Service) Raw() Raw { return s.raw }

// AddListener registers l. Returns false if already registered.
func (s *Service) AddListener(l Listener) bool { return s.listeners.Add(l) }

// RemoveListener unregisters l. Returns false if unknown.
func (s *Service) RemoveListener(l Listener) bool { return s.listeners.Remove(l) }

// SendNoteOff sends a Note Off message.
func (s *Service) SendNoteOff(channel, note, velocity int) error {
	return s.Send(wire.NoteOffEvent(channel, note, velocity))
}

// SendNoteOn sends a Note On message.
func (s *Service) SendNoteOn(channel, note, velocity int) error {
	return s.Send(wire.NoteOnEvent(channel, note, velocity))
}

// SendPolyKeyPressure sends a Poly Key Pressure message.
func (s *Service) SendPolyKeyPressure(channel, note, pressure int) error {
	return s.Send(wire.PolyKeyPressureEvent(channel, note, pressure))
}

// SendControlChange sends a Control Change message.
func (s *Service) SendControlChange(channel, controller, value int) error {
	return s.Send(wire.ControlChangeEvent(channel, controller, value))
}

// SendProgramChange sends a Program Change message.
func (s *Service) SendProgramChange(channel, program int) error {
	return s.Send(wire.ProgramChangeEvent(channel, program))
}

// SendChannelPressure sends a Channel Pressure message.
func (s *Service) SendChannelPressure(channel, pressure int) error {
	return s.Send(wire.ChannelPressureEvent(channel, pressure))
}

// SendPitchBend sends a Pitch Bend message.
func (s *Service) SendPitchBend(channel, bend int) error {
	return s.Send(wire.PitchBendEvent(channel, bend))
}

// SendSysEx sends a System Exclusive message.
func (s *Service) SendSysEx(vendorID int, payload []byte) error {
	return s.Send(wire.SysExEvent(vendorID, payload))
}

// Send encodes and sends ev. It does nothing unless the service is ACTIVE.
// Encoding errors wrap wire.ErrInvalidArgument. A message dropped by a full
// transmit queue is not an error; the transport logs it.
func (s *Service) Send(ev wire.Event) error {
	if s.Status() != service.StatusActive {
		return nil
	}
	msg, err := wire.Encode(ev)
	if err != nil {
		return err
	}
	if !s.raw.SendRawMessage(msg) {
		s.logger.Debug("midi message not sent", "kind", ev.Kind.String())
		return nil
	}

	now := time.Now()
	s.captureMessage(log.DirectionOut, ev, msg, now)
	s.fire(Message{Direction: Out, Event: ev, Raw: msg, At: now})
	return nil
}

// ErrorCount returns how many received messages failed to decode.
func (s *Service) ErrorCount() uint64 { return s.rxErrors.Load() }

// ResetErrorCount zeroes the error counter.
func (s *Service) ResetErrorCount() { s.rxErrors.Store(0) }

// SetAddress rebinds the underlying transport.
func (s *Service) SetAddress(group string, port int) error {
	return s.raw.SetAddress(group, port)
}

// LastActivity implements activity.Source. It covers the raw layer's
// activities as well as this service's; Any is the latest of all.
func (s *Service) LastActivity(name string) time.Time {
	if name == activity.Any {
		own, raw := s.activity.Last(activity.Any), s.raw.LastActivity(activity.Any)
		if raw.After(own) {
			return raw
		}
		return own
	}
	if slices.Contains(s.activity.Names(), name) {
		return s.activity.Last(name)
	}
	return s.raw.LastActivity(name)
}

// ActivityNames implements activity.Source.
func (s *Service) ActivityNames() []string {
	return append(s.raw.ActivityNames(), s.activity.Names()...)
}

func (s *Service) rawMessage(ev rawmidi.Event) {
	if ev.Direction != rawmidi.Receive {
		return
	}

	decoded, err := wire.Decode(ev.Data)
	if err == nil && decoded.Kind == wire.KindInvalid {
		err = errMalformed
	}
	if err != nil {
		s.rxErrors.Add(1)
		s.activity.TouchAt(ActivityRxError, ev.At)
		s.logger.Warn("dropping undecodable MIDI message", "data", ev.Data, "error", err)
		e := log.NewErrorEvent(s.Name(), log.LayerWire, err, "decode")
		e.Direction = log.DirectionIn
		s.capture.Log(e)
		return
	}

	switch decoded.Kind {
	case wire.KindProgramChange:
		s.activity.TouchAt(ActivityProgramChange, ev.At)
	case wire.KindControlChange:
		s.activity.TouchAt(ActivityControlChange, ev.At)
	case wire.KindSysEx:
		s.activity.TouchAt(ActivitySysEx, ev.At)
	}

	s.captureMessage(log.DirectionIn, decoded, ev.Data, ev.At)
	s.fire(Message{Direction: In, Event: decoded, Raw: ev.Data, Source: ev.Source, At: ev.At})
}

func (s *Service) captureMessage(dir log.Direction, ev wire.Event, raw []byte, at time.Time) {
	s.capture.Log(log.Event{
		Timestamp: at,
		Direction: dir,
		Layer:     log.LayerWire,
		Category:  log.CategoryMessage,
		Service:   s.Name(),
		Message: &log.MessageEvent{
			Kind:        ev.Kind.String(),
			Channel:     uint8(ev.Channel),
			Data:        raw,
			Description: wire.Describe(raw),
		},
	})
}

func (s *Service) fire(m Message) {
	for _, l := range s.listeners.Snapshot() {
		l.MIDIMessage(m)
	}
}

// Compile-time interface satisfaction checks.
var (
	_ Raw             = (*rawmidi.Service)(nil)
	_ activity.Source = (*Service)(nil)
)
