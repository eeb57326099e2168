package config

import (
	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/recovery"
	"github.com/netmidi/netmidi-go/pkg/transport"
)

// DefaultFeedListen is the feed address used when the feed is enabled
// without one.
const DefaultFeedListen = "127.0.0.1:7480"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Name: "netmidi",
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
		Transport: Transport{
			Group:         transport.DefaultGroup,
			Port:          transport.DefaultPort,
			TTL:           transport.DefaultTTL,
			Loopback:      true,
			ReceiveQueue:  transport.DefaultQueueSize,
			TransmitQueue: transport.DefaultQueueSize,
			MaxDatagram:   transport.DefaultMaxDatagramSize,
			Overflow:      transport.DropNewest.String(),
		},
		Activity: Activity{
			Interval: Duration(activity.DefaultInterval),
			Timeout:  Duration(activity.DefaultTimeout),
		},
		Recovery: Recovery{
			InitialDelay: Duration(recovery.InitialBackoff),
			MaxDelay:     Duration(recovery.MaxBackoff),
			StableAfter:  Duration(recovery.DefaultStableAfter),
		},
		Feed: Feed{
			Listen: DefaultFeedListen,
		},
	}
}
