package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/netmidi/netmidi-go/internal/logging"
	"github.com/netmidi/netmidi-go/pkg/midi"
	"github.com/netmidi/netmidi-go/pkg/wire"
)

func newConsoleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive sender that also prints received MIDI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "netmidi> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return fmt.Errorf("failed to create readline: %w", err)
			}
			defer rl.Close()

			// Logs go through readline so they do not corrupt the prompt.
			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: logging.FormatText,
				Output: rl.Stderr(),
			})
			if err != nil {
				return err
			}

			n, err := newNode(cfg, logger, nodeOptions{monitor: true})
			if err != nil {
				return err
			}
			n.midi.AddListener(midi.OnMessage(func(m midi.Message) {
				if m.Direction == midi.In {
					fmt.Fprintf(rl.Stdout(), "<- %s  (%s)\n", wire.Describe(m.Raw), m.Source)
				}
			}))

			if err := n.start(); err != nil {
				n.shutdown()
				return err
			}
			defer n.shutdown()

			c := &console{node: n, out: rl.Stdout()}
			c.printHelp()
			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) {
						continue
					}
					return nil
				}
				if quit := c.exec(strings.Fields(line)); quit {
					return nil
				}
			}
		},
	}
}

type console struct {
	node *node
	out  io.Writer
}

// exec runs one console line. It reports whether the console should exit.
func (c *console) exec(fields []string) bool {
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		c.printHelp()
	case "status":
		c.cmdStatus()
	case "address":
		c.cmdAddress(fields[1:])
	case "errors":
		fmt.Fprintf(c.out, "rx errors: %d\n", c.node.midi.ErrorCount())
		if len(fields) > 1 && fields[1] == "reset" {
			c.node.midi.ResetErrorCount()
		}
	default:
		ev, err := parseMessage(fields)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			return false
		}
		if err := c.node.midi.Send(ev); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return false
}

func (c *console) cmdStatus() {
	n := c.node
	addr := n.raw.Address()
	stats := n.raw.Stats()
	fmt.Fprintf(c.out, "node %s  midi %s  transport %s  %s\n",
		n.Status(), n.midi.Status(), n.raw.Transport().Status(), addr)
	fmt.Fprintf(c.out, "rx %d (dropped %d)  tx %d (dropped %d, errors %d)\n",
		stats.Received, stats.RxDropped, stats.Transmitted, stats.TxDropped, stats.SendErrors)
	if n.monitor != nil {
		for _, name := range n.midi.ActivityNames() {
			fmt.Fprintf(c.out, "  %-16s active=%t\n", name, n.monitor.IsActive(name))
		}
	}
}

func (c *console) cmdAddress(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "usage: address <group> <port>")
		return
	}
	port, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "invalid port %q\n", args[1])
		return
	}
	if err := c.node.midi.SetAddress(args[0], port); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "now on %s\n", c.node.raw.Address())
}

func (c *console) printHelp() {
	fmt.Fprintln(c.out, "Commands: status, address <group> <port>, errors [reset], help, quit")
	fmt.Fprintln(c.out, messageUsage)
}
