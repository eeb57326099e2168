package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/recovery"
	"github.com/netmidi/netmidi-go/pkg/transport"
)

// Config is the complete node configuration.
type Config struct {
	// Name identifies this node in logs, the feed and discovery.
	Name string `yaml:"name" toml:"name"`

	Logging   Logging   `yaml:"logging" toml:"logging"`
	Transport Transport `yaml:"transport" toml:"transport"`
	Activity  Activity  `yaml:"activity" toml:"activity"`
	Recovery  Recovery  `yaml:"recovery" toml:"recovery"`
	Discovery Discovery `yaml:"discovery" toml:"discovery"`
	Feed      Feed      `yaml:"feed" toml:"feed"`
	Capture   Capture   `yaml:"capture" toml:"capture"`
}

// Logging contains configuration for operational log output.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Transport contains the multicast binding and queue settings.
type Transport struct {
	Group         string `yaml:"group" toml:"group"`
	Port          int    `yaml:"port" toml:"port"`
	Interface     string `yaml:"interface" toml:"interface"`
	TTL           int    `yaml:"ttl" toml:"ttl"`
	Loopback      bool   `yaml:"loopback" toml:"loopback"`
	ReceiveQueue  int    `yaml:"receive_queue" toml:"receive_queue"`
	TransmitQueue int    `yaml:"transmit_queue" toml:"transmit_queue"`
	MaxDatagram   int    `yaml:"max_datagram" toml:"max_datagram"`
	Overflow      string `yaml:"overflow" toml:"overflow"`
}

// Activity contains the activity monitor timing.
type Activity struct {
	Interval Duration `yaml:"interval" toml:"interval"`
	Timeout  Duration `yaml:"timeout" toml:"timeout"`
}

// Recovery contains the restart supervisor settings.
type Recovery struct {
	Enabled      bool     `yaml:"enabled" toml:"enabled"`
	InitialDelay Duration `yaml:"initial_delay" toml:"initial_delay"`
	MaxDelay     Duration `yaml:"max_delay" toml:"max_delay"`
	StableAfter  Duration `yaml:"stable_after" toml:"stable_after"`
}

// Discovery contains mDNS advertisement settings.
type Discovery struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Instance  string `yaml:"instance" toml:"instance"`
	Interface string `yaml:"interface" toml:"interface"`
}

// Feed contains the websocket feed settings.
type Feed struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Listen  string `yaml:"listen" toml:"listen"`
}

// Capture contains protocol capture settings.
type Capture struct {
	// Path of the capture file. Empty disables capture.
	Path string `yaml:"path" toml:"path"`
}

// Duration is a time.Duration written as a string in config files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads the file at path on top of Default and validates the result.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := Parse(data, filepath.Ext(path), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes data into cfg. ext selects the format (".toml" or YAML).
func Parse(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// TransportConfig converts the transport section.
func (c *Config) TransportConfig() (transport.Config, error) {
	policy, err := transport.ParseOverflowPolicy(c.Transport.Overflow)
	if err != nil {
		return transport.Config{}, err
	}
	tc := transport.DefaultConfig()
	tc.Group = c.Transport.Group
	tc.Port = c.Transport.Port
	tc.Interface = c.Transport.Interface
	tc.TTL = c.Transport.TTL
	tc.DisableLoopback = !c.Transport.Loopback
	tc.ReceiveQueueSize = c.Transport.ReceiveQueue
	tc.TransmitQueueSize = c.Transport.TransmitQueue
	tc.MaxDatagramSize = c.Transport.MaxDatagram
	tc.Overflow = policy
	return tc, nil
}

// MonitorConfig converts the activity section.
func (c *Config) MonitorConfig() activity.MonitorConfig {
	mc := activity.DefaultMonitorConfig()
	mc.Interval = c.Activity.Interval.Std()
	mc.Timeout = c.Activity.Timeout.Std()
	return mc
}

// SupervisorConfig converts the recovery section.
func (c *Config) SupervisorConfig() recovery.Config {
	bc := recovery.DefaultBackoffConfig()
	bc.Initial = c.Recovery.InitialDelay.Std()
	bc.Max = c.Recovery.MaxDelay.Std()
	return recovery.Config{
		Backoff:     bc,
		StableAfter: c.Recovery.StableAfter.Std(),
	}
}
