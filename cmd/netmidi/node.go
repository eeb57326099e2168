package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/netmidi/netmidi-go/internal/config"
	"github.com/netmidi/netmidi-go/internal/logging"
	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/discovery"
	"github.com/netmidi/netmidi-go/pkg/feed"
	"github.com/netmidi/netmidi-go/pkg/log"
	"github.com/netmidi/netmidi-go/pkg/midi"
	"github.com/netmidi/netmidi-go/pkg/rawmidi"
	"github.com/netmidi/netmidi-go/pkg/recovery"
	"github.com/netmidi/netmidi-go/pkg/service"
)

// nodeOptions selects the optional parts of a node. One-shot commands only
// need the MIDI stack.
type nodeOptions struct {
	monitor    bool
	discovery  bool
	feed       bool
	supervisor bool
	capture    bool
}

// node is a MIDI stack plus its optional companions, composed under one
// composite. The supervisor sits outside the composite it restarts.
type node struct {
	*service.Composite

	raw        *rawmidi.Service
	midi       *midi.Service
	monitor    *activity.Monitor
	feed       *feed.Server
	advertiser *discovery.Advertiser
	supervisor *recovery.Supervisor
	capture    *log.FileLogger

	logger *slog.Logger
}

func newNode(cfg *config.Config, logger *slog.Logger, opts nodeOptions) (*node, error) {
	n := &node{logger: logger}

	var protocol log.Logger
	if opts.capture && cfg.Capture.Path != "" {
		fl, err := log.NewFileLogger(cfg.Capture.Path)
		if err != nil {
			return nil, fmt.Errorf("capture: %w", err)
		}
		n.capture = fl
		protocol = fl
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			protocol = log.NewMultiLogger(fl, log.NewSlogAdapter(logging.NewComponentLogger(logger, "capture")))
		}
	}

	tc, err := cfg.TransportConfig()
	if err != nil {
		return nil, err
	}
	tc.Logger = logging.NewComponentLogger(logger, "transport")
	tc.ProtocolLogger = protocol

	n.raw, err = rawmidi.New(rawmidi.Config{
		Name:      "rawmidi",
		Transport: tc,
		Logger:    logging.NewComponentLogger(logger, "rawmidi"),
	})
	if err != nil {
		return nil, err
	}

	n.midi, err = midi.New(n.raw, midi.Config{
		Name:           "midi",
		Logger:         logging.NewComponentLogger(logger, "midi"),
		ProtocolLogger: protocol,
	})
	if err != nil {
		return nil, err
	}

	n.Composite = service.NewComposite(cfg.Name, logging.NewComponentLogger(logger, "node"))
	n.Composite.SetProtocolLogger(protocol)
	if err := n.AddChild(n.midi); err != nil {
		return nil, err
	}

	if opts.monitor {
		mc := cfg.MonitorConfig()
		mc.Logger = logging.NewComponentLogger(logger, "activity")
		n.monitor = activity.NewMonitor(n.midi, mc)
		if err := n.AddChild(n.monitor); err != nil {
			return nil, err
		}
	}

	if opts.feed && cfg.Feed.Enabled {
		n.feed = feed.NewServer(feed.Config{
			Listen: cfg.Feed.Listen,
			Logger: logging.NewComponentLogger(logger, "feed"),
		})
		bridge := feed.NewBridge(n.feed, cfg.Name)
		n.midi.AddListener(bridge)
		for _, s := range []service.Service{n.raw.Transport(), n.raw, n.midi, n.Composite} {
			s.AddStatusListener(bridge)
		}
		if n.monitor != nil {
			n.monitor.AddListener(bridge)
		}
		if err := n.AddChild(n.feed); err != nil {
			return nil, err
		}
	}

	if opts.discovery && cfg.Discovery.Enabled {
		n.advertiser, err = discovery.NewAdvertiser(n.raw, discovery.AdvertiserConfig{
			Instance:  cfg.Discovery.Instance,
			Name:      cfg.Name,
			Interface: cfg.Discovery.Interface,
			Logger:    logging.NewComponentLogger(logger, "discovery"),
		})
		if err != nil {
			return nil, err
		}
		n.raw.Transport().AddSettingsListener(n.advertiser)
		if err := n.AddChild(n.advertiser); err != nil {
			return nil, err
		}
	}

	if opts.supervisor && cfg.Recovery.Enabled {
		sc := cfg.SupervisorConfig()
		sc.Logger = logging.NewComponentLogger(logger, "recovery")
		n.supervisor = recovery.NewSupervisor(n.Composite, sc)
	}

	return n, nil
}

// start starts the node, then its supervisor.
func (n *node) start() error {
	if err := n.Start(); err != nil {
		return err
	}
	if n.supervisor != nil {
		return n.supervisor.Start()
	}
	return nil
}

// shutdown stops the supervisor first so it does not restart what is being
// stopped, then the node, then closes the capture file.
func (n *node) shutdown() {
	if n.supervisor != nil {
		n.supervisor.Stop()
	}
	n.Stop()
	if n.capture != nil {
		if err := n.capture.Close(); err != nil {
			n.logger.Warn("capture close failed", "error", err)
		}
	}
}
