package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/netmidi/netmidi-go/internal/config"
	"github.com/netmidi/netmidi-go/internal/logging"
	"github.com/netmidi/netmidi-go/pkg/version"
)

// commandContext carries the persistent flags shared by all commands.
type commandContext struct {
	configPath string
	logLevel   string
	logFormat  string
	group      string
	port       int

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "netmidi",
		Short:         "MIDI over UDP multicast",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path (.yaml or .toml)")
	flags.StringVar(&ctx.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&ctx.logFormat, "log-format", "", "Log format: auto, text, json")
	flags.StringVar(&ctx.group, "group", "", "Multicast group (overrides config)")
	flags.IntVar(&ctx.port, "port", 0, "Multicast port (overrides config)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newSendCommand(ctx))
	rootCmd.AddCommand(newConsoleCommand(ctx))
	rootCmd.AddCommand(newBrowseCommand(ctx))

	return rootCmd
}

// ensureConfig loads the configuration once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.group != "" {
		cfg.Transport.Group = c.group
	}
	if c.port != 0 {
		cfg.Transport.Port = c.port
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Logging.Format = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	c.logger = logger.With("node", cfg.Name)
	return c.logger, nil
}
