package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/netmidi/netmidi-go/pkg/wire"
)

const messageUsage = `Messages:
  note-on  <channel> <note> <velocity>
  note-off <channel> <note> [velocity]
  poly     <channel> <note> <pressure>
  cc       <channel> <controller> <value>
  pc       <channel> <program>
  pressure <channel> <pressure>
  bend     <channel> <value>            (-8192..8191)
  sysex    <vendor-id> [hex payload]    (e.g. sysex 0x7d 0102)

Channels are 1-16.`

var errUsage = errors.New("usage")

// parseMessage turns "note-on 1 60 100" style arguments into a validated
// event.
func parseMessage(args []string) (wire.Event, error) {
	if len(args) == 0 {
		return wire.Event{}, fmt.Errorf("%w: message type required", errUsage)
	}

	kind := strings.ToLower(args[0])
	params := args[1:]

	var ev wire.Event
	switch kind {
	case "note-on", "on":
		n, err := ints(params, 3, 3)
		if err != nil {
			return wire.Event{}, err
		}
		ev = wire.NoteOnEvent(n[0], n[1], n[2])
	case "note-off", "off":
		n, err := ints(params, 2, 3)
		if err != nil {
			return wire.Event{}, err
		}
		if len(n) == 2 {
			n = append(n, 0)
		}
		ev = wire.NoteOffEvent(n[0], n[1], n[2])
	case "poly", "poly-pressure":
		n, err := ints(params, 3, 3)
		if err != nil {
			return wire.Event{}, err
		}
		ev = wire.PolyKeyPressureEvent(n[0], n[1], n[2])
	case "cc", "control-change":
		n, err := ints(params, 3, 3)
		if err != nil {
			return wire.Event{}, err
		}
		ev = wire.ControlChangeEvent(n[0], n[1], n[2])
	case "pc", "program-change":
		n, err := ints(params, 2, 2)
		if err != nil {
			return wire.Event{}, err
		}
		ev = wire.ProgramChangeEvent(n[0], n[1])
	case "pressure", "channel-pressure":
		n, err := ints(params, 2, 2)
		if err != nil {
			return wire.Event{}, err
		}
		ev = wire.ChannelPressureEvent(n[0], n[1])
	case "bend", "pitch-bend":
		n, err := ints(params, 2, 2)
		if err != nil {
			return wire.Event{}, err
		}
		ev = wire.PitchBendEvent(n[0], n[1])
	case "sysex":
		if len(params) < 1 || len(params) > 2 {
			return wire.Event{}, fmt.Errorf("%w: sysex takes a vendor id and an optional hex payload", errUsage)
		}
		vendor, err := strconv.ParseInt(params[0], 0, 0)
		if err != nil {
			return wire.Event{}, fmt.Errorf("invalid vendor id %q", params[0])
		}
		var payload []byte
		if len(params) == 2 {
			payload, err = hex.DecodeString(params[1])
			if err != nil {
				return wire.Event{}, fmt.Errorf("invalid sysex payload: %w", err)
			}
		}
		ev = wire.SysExEvent(int(vendor), payload)
	default:
		return wire.Event{}, fmt.Errorf("%w: unknown message type %q", errUsage, args[0])
	}

	if _, err := wire.Encode(ev); err != nil {
		return wire.Event{}, err
	}
	return ev, nil
}

func ints(params []string, minArgs, maxArgs int) ([]int, error) {
	if len(params) < minArgs || len(params) > maxArgs {
		if minArgs == maxArgs {
			return nil, fmt.Errorf("%w: expected %d arguments, got %d", errUsage, minArgs, len(params))
		}
		return nil, fmt.Errorf("%w: expected %d to %d arguments, got %d", errUsage, minArgs, maxArgs, len(params))
	}
	out := make([]int, len(params))
	for i, p := range params {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}
