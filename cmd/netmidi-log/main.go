// Command netmidi-log views and analyzes protocol capture files.
//
// Capture files are written by "netmidi run --capture <file>" or the
// capture.path configuration key.
//
// Examples:
//
//	# View all events
//	netmidi-log view node.nmlog
//
//	# View only decoded inbound note-ons
//	netmidi-log view --layer wire --direction in --kind note_on node.nmlog
//
//	# Export to CSV
//	netmidi-log export --format csv -o node.csv node.nmlog
//
//	# Keep one session and save to a new file
//	netmidi-log filter --session 5f0c1d2e-... -o session.nmlog node.nmlog
//
//	# Show statistics
//	netmidi-log stats node.nmlog
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netmidi/netmidi-go/cmd/netmidi-log/commands"
	"github.com/netmidi/netmidi-go/pkg/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "netmidi-log",
		Short:         "netmidi capture log analyzer",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newViewCommand(), newExportCommand(), newFilterCommand(), newStatsCommand())
	return root
}

func newViewCommand() *cobra.Command {
	var layer, direction, category, kind string

	cmd := &cobra.Command{
		Use:   "view [flags] <file>",
		Short: "View capture file in human-readable format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := commands.ViewFilter{Kind: kind}

			if layer != "" {
				l, err := commands.ParseLayerFlag(layer)
				if err != nil {
					return err
				}
				filter.Layer = &l
			}
			if direction != "" {
				d, err := commands.ParseDirectionFlag(direction)
				if err != nil {
					return err
				}
				filter.Direction = &d
			}
			if category != "" {
				c, err := commands.ParseCategoryFlag(category)
				if err != nil {
					return err
				}
				filter.Category = &c
			}

			return commands.RunView(args[0], filter, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&layer, "layer", "", "Filter by layer (transport, wire, service)")
	cmd.Flags().StringVar(&direction, "direction", "", "Filter by direction (in, out)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (message, state, error)")
	cmd.Flags().StringVar(&kind, "kind", "", "Filter by MIDI message kind (e.g. note_on)")
	return cmd
}

func newExportCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export [flags] <file>",
		Short: "Export capture file to JSONL or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunExport(args[0], format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newFilterCommand() *cobra.Command {
	var opts commands.FilterOptions

	cmd := &cobra.Command{
		Use:   "filter [flags] <file>",
		Short: "Filter capture file and write to a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := commands.RunFilter(args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Filtered %d events to %s\n", count, opts.Output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "Output file (required)")
	f.StringVar(&opts.SessionID, "session", "", "Filter by transport session ID")
	f.StringVar(&opts.Service, "service", "", "Filter by service name")
	f.StringVar(&opts.Kind, "kind", "", "Filter by MIDI message kind")
	f.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339, inclusive)")
	f.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339, exclusive)")
	f.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire, service)")
	f.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	f.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Show statistics about the capture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunStats(args[0], cmd.OutOrStdout())
		},
	}
}
