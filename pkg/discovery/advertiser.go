package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/netmidi/netmidi-go/pkg/service"
	"github.com/netmidi/netmidi-go/pkg/transport"
	"github.com/netmidi/netmidi-go/pkg/version"
)

// AddressSource reports the multicast address to advertise.
// *transport.Transport and *rawmidi.Service implement it.
type AddressSource interface {
	Address() transport.Address
}

// AdvertiserConfig configures an Advertiser.
type AdvertiserConfig struct {
	// Instance is the DNS-SD instance name (default "netmidi-<hostname>").
	Instance string

	// Name is the human-readable session name put in TXT.
	Name string

	// Interface restricts advertising to one network interface.
	Interface string

	// TTL of the records (default 120s).
	TTL time.Duration

	// Logger for operational logs (optional).
	Logger *slog.Logger
}

// Advertiser is a service that registers the session while ACTIVE.
type Advertiser struct {
	*service.Lifecycle

	source AddressSource
	config AdvertiserConfig
	logger *slog.Logger

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates a stopped advertiser for the address of source.
func NewAdvertiser(source AddressSource, config AdvertiserConfig) (*Advertiser, error) {
	if config.Instance == "" {
		host, _ := os.Hostname()
		config.Instance = "netmidi-" + host
	}
	if err := ValidateInstanceName(config.Instance); err != nil {
		return nil, err
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	a := &Advertiser{
		source: source,
		config: config,
		logger: config.Logger,
	}
	a.Lifecycle = service.NewLifecycle("advertiser", service.Hooks{
		Acquire: a.acquire,
		Release: a.release,
	}, config.Logger)
	return a, nil
}

// Info returns what the advertiser publishes for the current address.
func (a *Advertiser) Info() SessionInfo {
	addr := a.source.Address()
	return SessionInfo{
		Instance: a.config.Instance,
		Group:    addr.Group,
		Port:     addr.Port,
		Name:     a.config.Name,
		Version:  version.Current,
	}
}

// Refresh re-registers with the current address if the advertiser is
// running. Call it after the transport address changes.
func (a *Advertiser) Refresh() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return nil
	}
	a.server.Shutdown()
	a.server = nil
	return a.registerLocked()
}

// SettingsChanged implements transport.SettingsListener.
func (a *Advertiser) SettingsChanged(transport.SettingsChange) {
	if err := a.Refresh(); err != nil {
		a.Fail(err)
	}
}

func (a *Advertiser) acquire() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registerLocked()
}

func (a *Advertiser) release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

func (a *Advertiser) registerLocked() error {
	info := a.Info()
	txt := TXTRecordsToStrings(EncodeSessionTXT(&info))

	var opts []zeroconf.ServerOption
	opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))

	server, err := zeroconf.Register(
		info.Instance,
		ServiceType,
		Domain,
		info.Port,
		txt,
		interfaces(a.config.Interface),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register session: %w", err)
	}

	a.server = server
	a.logger.Info("advertising session", "instance", info.Instance, "group", info.Group, "port", info.Port)
	return nil
}

// interfaces returns the interfaces to use, nil meaning all.
func interfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Compile-time interface satisfaction checks.
var (
	_ service.Service            = (*Advertiser)(nil)
	_ transport.SettingsListener = (*Advertiser)(nil)
	_ AddressSource              = (*transport.Transport)(nil)
)
