package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var linger time.Duration

	cmd := &cobra.Command{
		Use:   "send <message> [args...]",
		Short: "Send one MIDI message to the session",
		Long:  "Send one MIDI message to the session.\n\n" + messageUsage,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := parseMessage(args)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			n, err := newNode(cfg, logger, nodeOptions{})
			if err != nil {
				return err
			}
			if err := n.start(); err != nil {
				n.shutdown()
				return err
			}
			defer n.shutdown()

			if err := n.midi.Send(ev); err != nil {
				return err
			}
			if err := drain(n, linger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", ev.Kind, n.raw.Address())
			return nil
		},
	}

	cmd.Flags().DurationVar(&linger, "linger", 200*time.Millisecond, "How long to wait for the transmit queue to drain")
	return cmd
}

// drain waits until the transmit queue is empty or linger elapses.
func drain(n *node, linger time.Duration) error {
	deadline := time.Now().Add(linger)
	t := n.raw.Transport()
	for t.TransmitQueueLen() > 0 {
		if time.Now().After(deadline) {
			return fmt.Errorf("message still queued after %s", linger)
		}
		time.Sleep(5 * time.Millisecond)
	}
	// The transmit goroutine may still be writing the last datagram.
	time.Sleep(10 * time.Millisecond)
	if t.Stats().Transmitted == 0 {
		return fmt.Errorf("message was not transmitted")
	}
	return nil
}
