package wire

import "fmt"

// NoteOff encodes a Note Off message.
func NoteOff(channel, note, velocity int) ([]byte, error) {
	return channelVoice3(StatusNoteOff, channel, "note", note, "velocity", velocity)
}

// NoteOn encodes a Note On message.
func NoteOn(channel, note, velocity int) ([]byte, error) {
	return channelVoice3(StatusNoteOn, channel, "note", note, "velocity", velocity)
}

// PolyKeyPressure encodes a Polyphonic Key Pressure message.
func PolyKeyPressure(channel, note, pressure int) ([]byte, error) {
	return channelVoice3(StatusPolyKeyPressure, channel, "note", note, "pressure", pressure)
}

// ControlChange encodes a Control Change message.
func ControlChange(channel, controller, value int) ([]byte, error) {
	return channelVoice3(StatusControlChange, channel, "controller", controller, "value", value)
}

// ProgramChange encodes a Program Change message.
func ProgramChange(channel, program int) ([]byte, error) {
	return channelVoice2(StatusProgramChange, channel, "program", program)
}

// ChannelPressure encodes a Channel Pressure message.
func ChannelPressure(channel, pressure int) ([]byte, error) {
	return channelVoice2(StatusChannelPressure, channel, "pressure", pressure)
}

// PitchBend encodes a Pitch Bend message. bend is in [-8192, 8191].
func PitchBend(channel, bend int) ([]byte, error) {
	if err := checkChannel(channel); err != nil {
		return nil, err
	}
	if bend < MinPitchBend || bend > MaxPitchBend {
		return nil, fmt.Errorf("%w: pitch bend %d out of range [%d, %d]", ErrInvalidArgument, bend, MinPitchBend, MaxPitchBend)
	}
	v := bend + pitchBendBias
	return []byte{StatusPitchBend | byte(channel-1), byte(v & dataMask), byte(v >> 7)}, nil
}

// SysEx encodes a System Exclusive message: 0xF0, vendorID, payload, 0xF7.
// vendorID and every payload byte must be 7-bit.
func SysEx(vendorID int, payload []byte) ([]byte, error) {
	if err := checkData("vendor id", vendorID); err != nil {
		return nil, err
	}
	for i, b := range payload {
		if b > MaxDataByte {
			return nil, fmt.Errorf("%w: sysex payload byte %d is 0x%02X", ErrInvalidArgument, i, b)
		}
	}
	msg := make([]byte, 0, len(payload)+3)
	msg = append(msg, StatusSysExStart, byte(vendorID))
	msg = append(msg, payload...)
	return append(msg, StatusSysExEnd), nil
}

// Encode encodes any valid Event.
func Encode(ev Event) ([]byte, error) {
	switch ev.Kind {
	case KindNoteOff:
		return NoteOff(ev.Channel, ev.Note, ev.Velocity)
	case KindNoteOn:
		return NoteOn(ev.Channel, ev.Note, ev.Velocity)
	case KindPolyKeyPressure:
		return PolyKeyPressure(ev.Channel, ev.Note, ev.Pressure)
	case KindControlChange:
		return ControlChange(ev.Channel, ev.Controller, ev.Value)
	case KindProgramChange:
		return ProgramChange(ev.Channel, ev.Program)
	case KindChannelPressure:
		return ChannelPressure(ev.Channel, ev.Pressure)
	case KindPitchBend:
		return PitchBend(ev.Channel, ev.Bend)
	case KindSysEx:
		return SysEx(ev.VendorID, ev.Payload)
	}
	return nil, fmt.Errorf("%w: cannot encode %s", ErrInvalidArgument, ev.Kind)
}

func channelVoice3(status byte, channel int, n1 string, d1 int, n2 string, d2 int) ([]byte, error) {
	if err := checkChannel(channel); err != nil {
		return nil, err
	}
	if err := checkData(n1, d1); err != nil {
		return nil, err
	}
	if err := checkData(n2, d2); err != nil {
		return nil, err
	}
	return []byte{status | byte(channel-1), byte(d1), byte(d2)}, nil
}

func channelVoice2(status byte, channel int, n1 string, d1 int) ([]byte, error) {
	if err := checkChannel(channel); err != nil {
		return nil, err
	}
	if err := checkData(n1, d1); err != nil {
		return nil, err
	}
	return []byte{status | byte(channel-1), byte(d1)}, nil
}

func checkChannel(channel int) error {
	if channel < MinChannel || channel > MaxChannel {
		return fmt.Errorf("%w: channel %d out of range [%d, %d]", ErrInvalidArgument, channel, MinChannel, MaxChannel)
	}
	return nil
}

func checkData(name string, v int) error {
	if v < 0 || v > MaxDataByte {
		return fmt.Errorf("%w: %s %d out of range [0, %d]", ErrInvalidArgument, name, v, MaxDataByte)
	}
	return nil
}
