package discovery

import (
	"context"
	"net"
	"slices"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures Browse.
type BrowserConfig struct {
	// Interface restricts browsing to one network interface.
	Interface string
}

// Browse streams sessions until ctx is done. Entries are aggregated by
// instance name: addresses seen on several interfaces are merged into one
// Session, which is emitted when first seen.
func Browse(ctx context.Context, config BrowserConfig) (<-chan *Session, error) {
	out := make(chan *Session)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	var opts []zeroconf.ClientOption
	if ifaces := interfaces(config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	go func() {
		defer close(out)

		sessions := make(map[string]*Session)
		gone := removed
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				s := entryToSession(entry)
				if s == nil {
					continue
				}
				if existing, found := sessions[s.Instance]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, s.Addresses)
					continue
				}
				sessions[s.Instance] = s
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-gone:
				if !ok {
					gone = nil
					continue
				}
				if existing, found := sessions[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, ipStrings(entry.AddrIPv4, entry.AddrIPv6))
					if len(existing.Addresses) == 0 {
						delete(sessions, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// Collect browses for the duration of ctx and returns every session seen.
func Collect(ctx context.Context, config BrowserConfig) ([]*Session, error) {
	ch, err := Browse(ctx, config)
	if err != nil {
		return nil, err
	}
	var sessions []*Session
	for s := range ch {
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func entryToSession(entry *zeroconf.ServiceEntry) *Session {
	return sessionFromRecord(entry.Instance, entry.HostName, entry.Text, ipStrings(entry.AddrIPv4, entry.AddrIPv6))
}

// sessionFromRecord builds a Session from resolved record data, or returns
// nil when the TXT record is not a valid session advertisement.
func sessionFromRecord(instance, host string, text []string, addrs []string) *Session {
	info, err := DecodeSessionTXT(StringsToTXTRecords(text))
	if err != nil {
		return nil
	}
	return &Session{
		Instance:  instance,
		Host:      host,
		Addresses: addrs,
		Group:     info.Group,
		Port:      info.Port,
		Name:      info.Name,
		Version:   info.Version,
	}
}

func ipStrings(v4, v6 []net.IP) []string {
	addrs := make([]string, 0, len(v4)+len(v6))
	for _, ip := range v4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range v6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, added []string) []string {
	for _, addr := range added {
		if !slices.Contains(existing, addr) {
			existing = append(existing, addr)
		}
	}
	return existing
}

// removeAddresses drops every address in gone from addresses.
func removeAddresses(addresses, gone []string) []string {
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !slices.Contains(gone, addr) {
			result = append(result, addr)
		}
	}
	return result
}
