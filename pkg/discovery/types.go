package discovery

import (
	"errors"
	"time"
)

const (
	// ServiceType is the DNS-SD service type for multicast MIDI sessions.
	ServiceType = "_netmidi._udp"

	// Domain is the mDNS domain.
	Domain = "local."
)

// TXT record keys.
const (
	TXTKeyGroup   = "group" // Multicast group (IPv4)
	TXTKeyPort    = "port"  // Multicast port
	TXTKeyName    = "name"  // Session name (optional)
	TXTKeyVersion = "v"     // Session format version (major.minor)
)

// Timing and limits.
const (
	// BrowseTimeout is the default browse duration for one-shot listings.
	BrowseTimeout = 5 * time.Second

	// DefaultTTL is the default record TTL.
	DefaultTTL = 120 * time.Second

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63
)

// Discovery errors.
var (
	ErrMissingRequired     = errors.New("missing required TXT record")
	ErrInvalidTXTRecord    = errors.New("invalid TXT record value")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 bytes")
	ErrIncompatibleVersion = errors.New("incompatible session format version")
)

// SessionInfo is what a node advertises.
type SessionInfo struct {
	// Instance is the DNS-SD instance name, unique on the link.
	Instance string

	Group string
	Port  int

	// Name is an optional human-readable session name.
	Name string

	// Version is the session format version (default version.Current).
	Version string
}

// Session is a discovered advertisement.
type Session struct {
	Instance  string
	Host      string
	Addresses []string

	Group   string
	Port    int
	Name    string
	Version string
}
