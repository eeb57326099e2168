package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestEncodeWireForm(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []byte
	}{
		{"note off", NoteOffEvent(1, 60, 64), []byte{0x80, 60, 64}},
		{"note on", NoteOnEvent(1, 60, 100), []byte{0x90, 60, 100}},
		{"note on ch16", NoteOnEvent(16, 0, 127), []byte{0x9F, 0, 127}},
		{"poly pressure", PolyKeyPressureEvent(3, 64, 10), []byte{0xA2, 64, 10}},
		{"control change", ControlChangeEvent(2, 7, 90), []byte{0xB1, 7, 90}},
		{"program change", ProgramChangeEvent(10, 5), []byte{0xC9, 5}},
		{"channel pressure", ChannelPressureEvent(1, 33), []byte{0xD0, 33}},
		{"pitch bend center", PitchBendEvent(1, 0), []byte{0xE0, 0x00, 0x40}},
		{"pitch bend min", PitchBendEvent(1, -8192), []byte{0xE0, 0x00, 0x00}},
		{"pitch bend max", PitchBendEvent(1, 8191), []byte{0xE0, 0x7F, 0x7F}},
		{"sysex", SysExEvent(0x7E, []byte{0x7F, 0x06, 0x01}), []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}},
		{"sysex empty payload", SysExEvent(0x43, nil), []byte{0xF0, 0x43, 0xF7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeMatchesGomidi(t *testing.T) {
	for ch := 1; ch <= 16; ch++ {
		c := uint8(ch - 1)

		got, err := NoteOn(ch, 60, 100)
		require.NoError(t, err)
		assert.Equal(t, []byte(midi.NoteOn(c, 60, 100)), got)

		got, err = ControlChange(ch, 7, 127)
		require.NoError(t, err)
		assert.Equal(t, []byte(midi.ControlChange(c, 7, 127)), got)

		got, err = ProgramChange(ch, 42)
		require.NoError(t, err)
		assert.Equal(t, []byte(midi.ProgramChange(c, 42)), got)

		got, err = PitchBend(ch, -1234)
		require.NoError(t, err)
		assert.Equal(t, []byte(midi.Pitchbend(c, -1234)), got)
	}
}

func TestRoundTripChannelVoice(t *testing.T) {
	for ch := MinChannel; ch <= MaxChannel; ch++ {
		for v := 0; v <= MaxDataByte; v++ {
			other := MaxDataByte - v
			events := []Event{
				NoteOffEvent(ch, v, other),
				NoteOnEvent(ch, v, other),
				PolyKeyPressureEvent(ch, v, other),
				ControlChangeEvent(ch, v, other),
				ProgramChangeEvent(ch, v),
				ChannelPressureEvent(ch, v),
			}
			for _, ev := range events {
				msg, err := Encode(ev)
				require.NoError(t, err)
				got, err := Decode(msg)
				require.NoError(t, err)
				if !assert.Equal(t, ev, got) {
					return
				}
			}
		}
	}
}

func TestRoundTripPitchBend(t *testing.T) {
	for _, bend := range []int{MinPitchBend, -4096, -1, 0, 1, 127, 128, 4095, MaxPitchBend} {
		msg, err := PitchBend(5, bend)
		require.NoError(t, err)
		got, err := Decode(msg)
		require.NoError(t, err)
		assert.Equal(t, PitchBendEvent(5, bend), got)
	}
}

func TestRoundTripSysEx(t *testing.T) {
	ev := SysExEvent(0x41, []byte{0x10, 0x42, 0x12, 0x40, 0x00, 0x7F, 0x00, 0x41})
	msg, err := Encode(ev)
	require.NoError(t, err)
	got, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestEncodeOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"channel 0", func() ([]byte, error) { return NoteOn(0, 60, 100) }},
		{"channel 17", func() ([]byte, error) { return NoteOn(17, 60, 100) }},
		{"negative channel", func() ([]byte, error) { return ProgramChange(-1, 0) }},
		{"note 128", func() ([]byte, error) { return NoteOff(1, 128, 0) }},
		{"velocity -1", func() ([]byte, error) { return NoteOn(1, 60, -1) }},
		{"poly pressure 200", func() ([]byte, error) { return PolyKeyPressure(1, 1, 200) }},
		{"controller 128", func() ([]byte, error) { return ControlChange(1, 128, 0) }},
		{"cc value 128", func() ([]byte, error) { return ControlChange(1, 0, 128) }},
		{"program 128", func() ([]byte, error) { return ProgramChange(1, 128) }},
		{"channel pressure -5", func() ([]byte, error) { return ChannelPressure(1, -5) }},
		{"bend low", func() ([]byte, error) { return PitchBend(1, -8193) }},
		{"bend high", func() ([]byte, error) { return PitchBend(1, 8192) }},
		{"vendor -1", func() ([]byte, error) { return SysEx(-1, nil) }},
		{"vendor 128", func() ([]byte, error) { return SysEx(128, nil) }},
		{"sysex high byte", func() ([]byte, error) { return SysEx(0x7E, []byte{0x01, 0xF7}) }},
		{"invalid kind", func() ([]byte, error) { return Encode(Event{Kind: KindInvalid}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Nil(t, got)
		})
	}
}

func TestDissect(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
		want Kind
	}{
		{"note on", []byte{0x90, 60, 100}, KindNoteOn},
		{"note off", []byte{0x85, 60, 0}, KindNoteOff},
		{"poly", []byte{0xA0, 1, 2}, KindPolyKeyPressure},
		{"cc", []byte{0xBF, 1, 2}, KindControlChange},
		{"pc", []byte{0xC0, 1}, KindProgramChange},
		{"pressure", []byte{0xD0, 1}, KindChannelPressure},
		{"bend", []byte{0xE0, 0, 64}, KindPitchBend},
		{"sysex", []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}, KindSysEx},
		{"sysex minimal", []byte{0xF0, 0x7E, 0xF7}, KindSysEx},

		{"data byte first", []byte{0x3C, 0x64}, KindInvalid},
		{"data byte only", []byte{0x00}, KindInvalid},
		{"long running status", []byte{0x7F, 0x90, 0x3C, 0x64, 0x00}, KindInvalid},
		{"note on short", []byte{0x90, 60}, KindInvalid},
		{"note on long", []byte{0x90, 60, 100, 1}, KindInvalid},
		{"note on high data", []byte{0x90, 0x80, 100}, KindInvalid},
		{"pc long", []byte{0xC0, 1, 2}, KindInvalid},
		{"status only", []byte{0xB0}, KindInvalid},
		{"sysex too short", []byte{0xF0, 0xF7}, KindInvalid},
		{"sysex unterminated", []byte{0xF0, 0x7E, 0x01}, KindInvalid},
		{"sysex interior status", []byte{0xF0, 0x7E, 0x90, 0xF7}, KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dissect(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDissectEncodedNoteOn(t *testing.T) {
	msg, err := NoteOn(1, 60, 100)
	require.NoError(t, err)
	kind, err := Dissect(msg)
	require.NoError(t, err)
	assert.Equal(t, KindNoteOn, kind)
}

func TestDissectCallerErrors(t *testing.T) {
	for _, msg := range [][]byte{nil, {}, {0xF1, 0x00}, {0xF8}, {0xFF}, {0xF7}} {
		_, err := Dissect(msg)
		assert.ErrorIs(t, err, ErrInvalidArgument, "% X", msg)

		ev, err := Decode(msg)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, KindInvalid, ev.Kind)
	}
}

func TestDecodeInvalid(t *testing.T) {
	ev, err := Decode([]byte{0x90, 200, 1})
	require.NoError(t, err)
	assert.Equal(t, Event{Kind: KindInvalid}, ev)
}

func TestDecodeSysExPayloadIsCopy(t *testing.T) {
	msg := []byte{0xF0, 0x7D, 0x01, 0x02, 0xF7}
	ev, err := Decode(msg)
	require.NoError(t, err)
	msg[2] = 0x55
	assert.Equal(t, []byte{0x01, 0x02}, ev.Payload)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "SYSTEM_COMMON_SYSEX", KindSysEx.String())
	assert.Equal(t, "NOTE_ON", KindNoteOn.String())
	assert.Equal(t, "INVALID", KindInvalid.String())
	assert.Equal(t, "UNKNOWN", Kind(99).String())
	assert.True(t, KindPitchBend.IsChannelVoice())
	assert.False(t, KindSysEx.IsChannelVoice())
}

func TestDescribe(t *testing.T) {
	msg, err := NoteOn(1, 60, 100)
	require.NoError(t, err)
	assert.Equal(t, midi.Message(msg).String(), Describe(msg))

	assert.Contains(t, Describe([]byte{0x90, 0x80}), "INVALID")
	assert.Contains(t, Describe(nil), "INVALID")
}
