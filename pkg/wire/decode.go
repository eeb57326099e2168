package wire

import (
	"bytes"
	"fmt"
)

// Dissect classifies a raw message.
//
// A message whose first byte is not a status byte, or whose length or data
// bytes do not match its status, is KindInvalid. Empty input and status bytes
// other than channel voice and 0xF0 fail with ErrInvalidArgument.
func Dissect(msg []byte) (Kind, error) {
	if len(msg) == 0 {
		return KindInvalid, fmt.Errorf("%w: empty message", ErrInvalidArgument)
	}
	status := msg[0]
	if status&0x80 == 0 {
		return KindInvalid, nil
	}

	kind, size, ok := kindOf(status)
	if !ok {
		return KindInvalid, fmt.Errorf("%w: unsupported status byte 0x%02X", ErrInvalidArgument, status)
	}

	if kind == KindSysEx {
		if len(msg) < 3 || msg[len(msg)-1] != StatusSysExEnd || !dataBytes(msg[1:len(msg)-1]) {
			return KindInvalid, nil
		}
		return KindSysEx, nil
	}

	if len(msg) != size || !dataBytes(msg[1:]) {
		return KindInvalid, nil
	}
	return kind, nil
}

// Decode dissects msg and extracts its fields. A malformed message yields an
// Event of KindInvalid and no error.
func Decode(msg []byte) (Event, error) {
	kind, err := Dissect(msg)
	if err != nil || kind == KindInvalid {
		return Event{Kind: KindInvalid}, err
	}

	if kind == KindSysEx {
		return Event{
			Kind:     KindSysEx,
			VendorID: int(msg[1]),
			Payload:  bytes.Clone(msg[2 : len(msg)-1]),
		}, nil
	}

	ev := Event{Kind: kind, Channel: int(msg[0]&channelMask) + 1}
	switch kind {
	case KindNoteOff, KindNoteOn:
		ev.Note, ev.Velocity = int(msg[1]), int(msg[2])
	case KindPolyKeyPressure:
		ev.Note, ev.Pressure = int(msg[1]), int(msg[2])
	case KindControlChange:
		ev.Controller, ev.Value = int(msg[1]), int(msg[2])
	case KindProgramChange:
		ev.Program = int(msg[1])
	case KindChannelPressure:
		ev.Pressure = int(msg[1])
	case KindPitchBend:
		ev.Bend = (int(msg[2])<<7 | int(msg[1])) - pitchBendBias
	}
	return ev, nil
}

func dataBytes(b []byte) bool {
	for _, v := range b {
		if v > MaxDataByte {
			return false
		}
	}
	return true
}
