package discovery

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/netmidi/netmidi-go/pkg/version"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeSessionTXT creates TXT records for a session advertisement.
func EncodeSessionTXT(info *SessionInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyGroup] = info.Group
	txt[TXTKeyPort] = strconv.Itoa(info.Port)

	v := info.Version
	if v == "" {
		v = version.Current
	}
	txt[TXTKeyVersion] = v

	if info.Name != "" {
		txt[TXTKeyName] = info.Name
	}

	return txt
}

// DecodeSessionTXT parses TXT records from a session advertisement.
func DecodeSessionTXT(txt TXTRecordMap) (*SessionInfo, error) {
	info := &SessionInfo{}

	group, ok := txt[TXTKeyGroup]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyGroup)
	}
	ip := net.ParseIP(group).To4()
	if ip == nil || !ip.IsMulticast() {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyGroup, group)
	}
	info.Group = group

	portStr, ok := txt[TXTKeyPort]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyPort)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil || port == 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXTRecord, TXTKeyPort, portStr)
	}
	info.Port = int(port)

	info.Name = txt[TXTKeyName]

	// Records without a version predate versioning and use the first format.
	info.Version = version.Current
	if v, ok := txt[TXTKeyVersion]; ok {
		if !version.CompatibleWithCurrent(v) {
			return nil, fmt.Errorf("%w: %s", ErrIncompatibleVersion, v)
		}
		info.Version = v
	}

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to "key=value" strings,
// sorted by key.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	slices.Sort(result)
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
