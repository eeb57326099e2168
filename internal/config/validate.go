package config

import (
	"errors"
	"fmt"

	"github.com/netmidi/netmidi-go/internal/logging"
	"github.com/netmidi/netmidi-go/pkg/discovery"
	"github.com/netmidi/netmidi-go/pkg/transport"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := c.validateTransport(); err != nil {
		return err
	}
	if err := c.validateActivity(); err != nil {
		return err
	}
	if err := c.validateRecovery(); err != nil {
		return err
	}
	if c.Discovery.Enabled && c.Discovery.Instance != "" {
		if err := discovery.ValidateInstanceName(c.Discovery.Instance); err != nil {
			return fmt.Errorf("discovery.instance: %w", err)
		}
	}
	if c.Feed.Enabled && c.Feed.Listen == "" {
		return errors.New("feed.listen must be set when the feed is enabled")
	}
	return nil
}

func (c *Config) validateTransport() error {
	addr := transport.Address{Group: c.Transport.Group, Port: c.Transport.Port}
	if err := addr.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if c.Transport.ReceiveQueue <= 0 {
		return errors.New("transport.receive_queue must be positive")
	}
	if c.Transport.TransmitQueue <= 0 {
		return errors.New("transport.transmit_queue must be positive")
	}
	if c.Transport.MaxDatagram <= 0 {
		return errors.New("transport.max_datagram must be positive")
	}
	if c.Transport.TTL < 0 || c.Transport.TTL > 255 {
		return errors.New("transport.ttl must be between 0 and 255")
	}
	if _, err := transport.ParseOverflowPolicy(c.Transport.Overflow); err != nil {
		return fmt.Errorf("transport.overflow: %w", err)
	}
	return nil
}

func (c *Config) validateActivity() error {
	if c.Activity.Interval <= 0 {
		return errors.New("activity.interval must be positive")
	}
	if c.Activity.Timeout <= 0 {
		return errors.New("activity.timeout must be positive")
	}
	return nil
}

func (c *Config) validateRecovery() error {
	if !c.Recovery.Enabled {
		return nil
	}
	if c.Recovery.InitialDelay <= 0 {
		return errors.New("recovery.initial_delay must be positive")
	}
	if c.Recovery.MaxDelay < c.Recovery.InitialDelay {
		return errors.New("recovery.max_delay must not be below recovery.initial_delay")
	}
	return nil
}
