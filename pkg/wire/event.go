package wire

// Event is a decoded MIDI message. Only the fields of its Kind are set.
type Event struct {
	Kind Kind

	// Channel is 1-16 for channel voice messages and 0 otherwise.
	Channel int

	// Note is the key for note and poly key pressure messages.
	Note int

	// Velocity for note on/off.
	Velocity int

	// Pressure for poly key and channel pressure.
	Pressure int

	Controller int
	Value      int
	Program    int

	// Bend is the signed pitch bend value in [-8192, 8191].
	Bend int

	// VendorID is the first byte after 0xF0 in a SysEx message.
	VendorID int

	// Payload holds the SysEx bytes between the vendor id and 0xF7.
	Payload []byte
}

// NoteOffEvent returns a Note Off event. Like the other constructors it does
// not validate; Encode does.
func NoteOffEvent(channel, note, velocity int) Event {
	return Event{Kind: KindNoteOff, Channel: channel, Note: note, Velocity: velocity}
}

// NoteOnEvent returns a Note On event.
func NoteOnEvent(channel, note, velocity int) Event {
	return Event{Kind: KindNoteOn, Channel: channel, Note: note, Velocity: velocity}
}

// PolyKeyPressureEvent returns a Poly Key Pressure event.
func PolyKeyPressureEvent(channel, note, pressure int) Event {
	return Event{Kind: KindPolyKeyPressure, Channel: channel, Note: note, Pressure: pressure}
}

// ControlChangeEvent returns a Control Change event.
func ControlChangeEvent(channel, controller, value int) Event {
	return Event{Kind: KindControlChange, Channel: channel, Controller: controller, Value: value}
}

// ProgramChangeEvent returns a Program Change event.
func ProgramChangeEvent(channel, program int) Event {
	return Event{Kind: KindProgramChange, Channel: channel, Program: program}
}

// ChannelPressureEvent returns a Channel Pressure event.
func ChannelPressureEvent(channel, pressure int) Event {
	return Event{Kind: KindChannelPressure, Channel: channel, Pressure: pressure}
}

// PitchBendEvent returns a Pitch Bend event.
func PitchBendEvent(channel, bend int) Event {
	return Event{Kind: KindPitchBend, Channel: channel, Bend: bend}
}

// SysExEvent returns a System Exclusive event.
func SysExEvent(vendorID int, payload []byte) Event {
	return Event{Kind: KindSysEx, VendorID: vendorID, Payload: payload}
}
