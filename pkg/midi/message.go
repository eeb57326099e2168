package midi

import (
	"net"
	"time"

	"github.com/netmidi/netmidi-go/pkg/wire"
)

// Direction of a MIDI message.
type Direction uint8

const (
	In Direction = iota
	Out
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case In:
		return "IN"
	case Out:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Message is a decoded MIDI message with its raw bytes.
type Message struct {
	Direction Direction
	Event     wire.Event
	Raw       []byte

	// Source is the sender of an inbound message.
	Source net.Addr
	At     time.Time
}

// Listener receives every decoded message, in and out.
// Implementations must be comparable.
type Listener interface {
	MIDIMessage(msg Message)
}

type messageFunc struct {
	fn func(Message)
}

func (f *messageFunc) MIDIMessage(m Message) { f.fn(m) }

// OnMessage adapts a function into a Listener.
func OnMessage(fn func(Message)) Listener {
	return &messageFunc{fn: fn}
}

// Handler dispatches messages to per-kind callbacks. Nil callbacks are
// skipped. Register a *Handler as a Listener.
type Handler struct {
	// Outbound also dispatches messages this service sent.
	Outbound bool

	NoteOff         func(channel, note, velocity int)
	NoteOn          func(channel, note, velocity int)
	PolyKeyPressure func(channel, note, pressure int)
	ControlChange   func(channel, controller, value int)
	ProgramChange   func(channel, program int)
	ChannelPressure func(channel, pressure int)
	PitchBend       func(channel, bend int)
	SysEx           func(vendorID int, payload []byte)
}

// MIDIMessage implements Listener.
func (h *Handler) MIDIMessage(m Message) {
	if m.Direction == Out && !h.Outbound {
		return
	}
	ev := m.Event
	switch ev.Kind {
	case wire.KindNoteOff:
		if h.NoteOff != nil {
			h.NoteOff(ev.Channel, ev.Note, ev.Velocity)
		}
	case wire.KindNoteOn:
		if h.NoteOn != nil {
			h.NoteOn(ev.Channel, ev.Note, ev.Velocity)
		}
	case wire.KindPolyKeyPressure:
		if h.PolyKeyPressure != nil {
			h.PolyKeyPressure(ev.Channel, ev.Note, ev.Pressure)
		}
	case wire.KindControlChange:
		if h.ControlChange != nil {
			h.ControlChange(ev.Channel, ev.Controller, ev.Value)
		}
	case wire.KindProgramChange:
		if h.ProgramChange != nil {
			h.ProgramChange(ev.Channel, ev.Program)
		}
	case wire.KindChannelPressure:
		if h.ChannelPressure != nil {
			h.ChannelPressure(ev.Channel, ev.Pressure)
		}
	case wire.KindPitchBend:
		if h.PitchBend != nil {
			h.PitchBend(ev.Channel, ev.Bend)
		}
	case wire.KindSysEx:
		if h.SysEx != nil {
			h.SysEx(ev.VendorID, ev.Payload)
		}
	}
}
