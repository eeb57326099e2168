package wire

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Describe renders msg for humans. Malformed messages are shown as hex.
func Describe(msg []byte) string {
	kind, err := Dissect(msg)
	if err != nil || kind == KindInvalid {
		return fmt.Sprintf("%s % X", KindInvalid, msg)
	}
	return midi.Message(msg).String()
}
