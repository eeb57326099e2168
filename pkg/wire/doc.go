// Package wire encodes and decodes raw MIDI wire messages.
//
// Every function is pure: no shared state, no I/O.
//
// # Channels
//
// The API uses 1-based channels (1-16). On the wire the channel is the low
// nibble of the status byte (0-15).
//
// # Message Forms
//
//	Note Off            0x80+ch note velocity
//	Note On             0x90+ch note velocity
//	Poly Key Pressure   0xA0+ch note pressure
//	Control Change      0xB0+ch controller value
//	Program Change      0xC0+ch program
//	Channel Pressure    0xD0+ch pressure
//	Pitch Bend          0xE0+ch lsb msb        (value+8192, 7 bits each)
//	System Exclusive    0xF0 vendor payload... 0xF7
//
// # Validation
//
// Encoders reject out-of-range fields with ErrInvalidArgument before
// producing any bytes. Dissect classifies a present message as KindInvalid
// when its framing is wrong; empty input and status bytes outside the set
// above are caller errors and fail with ErrInvalidArgument.
//
// SysEx payloads are only checked for framing and 7-bit data bytes; vendor
// specific grammars are not validated.
package wire
