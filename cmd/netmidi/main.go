// Command netmidi runs and drives MIDI-over-multicast nodes.
//
// Usage:
//
//	netmidi run [--config node.yaml]
//	netmidi send note-on 1 60 100
//	netmidi console
//	netmidi browse --timeout 3s
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
