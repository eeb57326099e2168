package transport

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/netmidi/netmidi-go/pkg/log"
)

// Default transport settings.
const (
	DefaultGroup           = "225.0.0.37"
	DefaultPort            = 21928
	DefaultQueueSize       = 256
	DefaultMaxDatagramSize = 8192
	DefaultTTL             = 1
)

// Activity names maintained by a Transport.
const (
	ActivityTransmit = "transmit"
	ActivityReceive  = "receive"
)

// Address is a multicast group and port.
type Address struct {
	Group string
	Port  int
}

// String returns "group:port".
func (a Address) String() string {
	return net.JoinHostPort(a.Group, strconv.Itoa(a.Port))
}

// UDPAddr returns the address as a *net.UDPAddr.
func (a Address) UDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: net.ParseIP(a.Group).To4(), Port: a.Port}
}

// Validate checks that the group is an IPv4 multicast address and the port
// is in range.
func (a Address) Validate() error {
	ip := net.ParseIP(a.Group).To4()
	if ip == nil || !ip.IsMulticast() {
		return fmt.Errorf("%w: %q is not an IPv4 multicast group", ErrInvalidArgument, a.Group)
	}
	if a.Port < 1 || a.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidArgument, a.Port)
	}
	return nil
}

// Config configures a Transport.
type Config struct {
	// Name of the service (default "transport").
	Name string

	// Group is the IPv4 multicast group (default 225.0.0.37).
	Group string

	// Port is the UDP port (default 21928).
	Port int

	// Interface is the name of the network interface used to join the group
	// and send. Empty uses the system default.
	Interface string

	// TTL is the multicast TTL (default 1).
	TTL int

	// DisableLoopback turns off multicast loopback. Loopback is on by
	// default so other listeners on this host see our datagrams.
	DisableLoopback bool

	// ReceiveQueueSize and TransmitQueueSize bound the queues (default 256).
	ReceiveQueueSize  int
	TransmitQueueSize int

	// MaxDatagramSize is the largest datagram accepted (default 8192).
	// Larger ones are dropped and counted in Stats.Truncated.
	MaxDatagramSize int

	// Overflow selects what is dropped when a queue is full.
	Overflow OverflowPolicy

	// Logger for operational logs (optional).
	Logger *slog.Logger

	// ProtocolLogger captures datagrams and state changes (optional).
	ProtocolLogger log.Logger
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		Name:              "transport",
		Group:             DefaultGroup,
		Port:              DefaultPort,
		TTL:               DefaultTTL,
		ReceiveQueueSize:  DefaultQueueSize,
		TransmitQueueSize: DefaultQueueSize,
		MaxDatagramSize:   DefaultMaxDatagramSize,
		Overflow:          DropNewest,
	}
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "transport"
	}
	if c.Group == "" {
		c.Group = DefaultGroup
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.ReceiveQueueSize <= 0 {
		c.ReceiveQueueSize = DefaultQueueSize
	}
	if c.TransmitQueueSize <= 0 {
		c.TransmitQueueSize = DefaultQueueSize
	}
	if c.MaxDatagramSize <= 0 {
		c.MaxDatagramSize = DefaultMaxDatagramSize
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	c.ProtocolLogger = log.OrNoop(c.ProtocolLogger)
}
