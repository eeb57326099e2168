package wire

import "errors"

// ErrInvalidArgument is returned for out-of-range fields, empty messages and
// unknown status bytes.
var ErrInvalidArgument = errors.New("invalid argument")

// Status bytes (channel nibble zero).
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusPolyKeyPressure byte = 0xA0
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusChannelPressure byte = 0xD0
	StatusPitchBend       byte = 0xE0
	StatusSysExStart      byte = 0xF0
	StatusSysExEnd        byte = 0xF7
)

// Field ranges.
const (
	MinChannel   = 1
	MaxChannel   = 16
	MaxDataByte  = 0x7F
	MinPitchBend = -8192
	MaxPitchBend = 8191

	pitchBendBias = 8192
	statusMask    = 0xF0
	channelMask   = 0x0F
	dataMask      = 0x7F
)

// Kind classifies a raw MIDI message.
type Kind uint8

const (
	// KindInvalid is a present but structurally malformed message.
	KindInvalid Kind = iota
	KindNoteOff
	KindNoteOn
	KindPolyKeyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	// KindSysEx is a complete, bracketed System Exclusive block.
	KindSysEx
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "INVALID"
	case KindNoteOff:
		return "NOTE_OFF"
	case KindNoteOn:
		return "NOTE_ON"
	case KindPolyKeyPressure:
		return "POLY_KEY_PRESSURE"
	case KindControlChange:
		return "CONTROL_CHANGE"
	case KindProgramChange:
		return "PROGRAM_CHANGE"
	case KindChannelPressure:
		return "CHANNEL_PRESSURE"
	case KindPitchBend:
		return "PITCH_BEND"
	case KindSysEx:
		return "SYSTEM_COMMON_SYSEX"
	default:
		return "UNKNOWN"
	}
}

// IsChannelVoice reports whether k is one of the seven channel voice kinds.
func (k Kind) IsChannelVoice() bool {
	return k >= KindNoteOff && k <= KindPitchBend
}

// kindOf maps a status byte to its kind and expected message length.
// SysEx has no fixed length and reports 0.
func kindOf(status byte) (Kind, int, bool) {
	switch status & statusMask {
	case StatusNoteOff:
		return KindNoteOff, 3, true
	case StatusNoteOn:
		return KindNoteOn, 3, true
	case StatusPolyKeyPressure:
		return KindPolyKeyPressure, 3, true
	case StatusControlChange:
		return KindControlChange, 3, true
	case StatusProgramChange:
		return KindProgramChange, 2, true
	case StatusChannelPressure:
		return KindChannelPressure, 2, true
	case StatusPitchBend:
		return KindPitchBend, 3, true
	}
	if status == StatusSysExStart {
		return KindSysEx, 0, true
	}
	return KindInvalid, 0, false
}
