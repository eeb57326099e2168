package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/netmidi/netmidi-go/pkg/discovery"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var iface string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List multicast MIDI sessions advertised on the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			sessions, err := discovery.Collect(bctx, discovery.BrowserConfig{Interface: iface})
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSessions(sessions))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", discovery.BrowseTimeout, "How long to browse")
	cmd.Flags().StringVar(&iface, "interface", "", "Network interface to browse on")
	return cmd
}

func renderSessions(sessions []*discovery.Session) string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.Instance,
			s.Name,
			s.Group,
			strconv.Itoa(s.Port),
			s.Host,
			strings.Join(s.Addresses, ", "),
		})
	}
	return renderTable(
		[]string{"Instance", "Name", "Group", "Port", "Host", "Addresses"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}
