package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/midi"
	"github.com/netmidi/netmidi-go/pkg/service"
	"github.com/netmidi/netmidi-go/pkg/wire"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var capturePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Join the session and log MIDI traffic until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if capturePath != "" {
				cfg.Capture.Path = capturePath
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			n, err := newNode(cfg, logger, nodeOptions{
				monitor:    true,
				discovery:  true,
				feed:       true,
				supervisor: true,
				capture:    true,
			})
			if err != nil {
				return err
			}

			n.midi.AddListener(midi.OnMessage(func(m midi.Message) {
				if m.Direction != midi.In {
					return
				}
				logger.Info("midi", "from", m.Source, "kind", m.Event.Kind.String(), "msg", wire.Describe(m.Raw))
			}))
			if n.monitor != nil {
				n.monitor.AddListener(activity.OnActivityChange(func(c activity.Change) {
					logger.Debug("activity", "name", c.Name, "active", c.Active)
				}))
			}
			n.AddStatusListener(service.OnStatusChange(func(c service.StatusChange) {
				if c.New == service.StatusError {
					logger.Error("node failed", "error", c.Err)
				}
			}))

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := n.start(); err != nil {
				n.shutdown()
				return err
			}
			addr := n.raw.Address()
			logger.Info("node running", "group", addr.Group, "port", addr.Port, "session", n.raw.Transport().SessionID())

			<-sigCtx.Done()

			stats := n.raw.Stats()
			n.shutdown()
			logger.Info("node stopped",
				"received", stats.Received,
				"transmitted", stats.Transmitted,
				"rx_dropped", stats.RxDropped,
				"tx_dropped", stats.TxDropped,
				"truncated", stats.Truncated,
				"rx_errors", n.midi.ErrorCount(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&capturePath, "capture", "", "Write a protocol capture to this file")
	return cmd
}
