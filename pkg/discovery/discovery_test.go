package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmidi/netmidi-go/pkg/transport"
)

func TestSessionTXTRoundTrip(t *testing.T) {
	info := &SessionInfo{Group: "225.0.0.37", Port: 21928, Name: "studio", Version: "1.0"}

	strs := TXTRecordsToStrings(EncodeSessionTXT(info))
	assert.Equal(t, []string{"group=225.0.0.37", "name=studio", "port=21928", "v=1.0"}, strs)

	got, err := DecodeSessionTXT(StringsToTXTRecords(strs))
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestDecodeSessionTXTErrors(t *testing.T) {
	tests := []struct {
		name string
		txt  TXTRecordMap
		want error
	}{
		{"missing group", TXTRecordMap{"port": "1"}, ErrMissingRequired},
		{"unicast group", TXTRecordMap{"group": "10.0.0.1", "port": "1"}, ErrInvalidTXTRecord},
		{"missing port", TXTRecordMap{"group": "225.0.0.37"}, ErrMissingRequired},
		{"bad port", TXTRecordMap{"group": "225.0.0.37", "port": "70000"}, ErrInvalidTXTRecord},
		{"zero port", TXTRecordMap{"group": "225.0.0.37", "port": "0"}, ErrInvalidTXTRecord},
		{"future major", TXTRecordMap{"group": "225.0.0.37", "port": "1", "v": "2.0"}, ErrIncompatibleVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSessionTXT(tt.txt)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestStringsToTXTRecordsFlag(t *testing.T) {
	txt := StringsToTXTRecords([]string{"a=1", "flag", "", "b=x=y"})
	assert.Equal(t, TXTRecordMap{"a": "1", "flag": "", "b": "x=y"}, txt)
}

func TestValidateInstanceName(t *testing.T) {
	assert.NoError(t, ValidateInstanceName("netmidi-stage"))
	assert.Error(t, ValidateInstanceName(""))
	long := make([]byte, MaxInstanceNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateInstanceName(string(long)), ErrInstanceNameTooLong)
}

func TestSessionFromRecord(t *testing.T) {
	s := sessionFromRecord("netmidi-a", "a.local.", []string{"group=239.0.0.1", "port=5004"}, []string{"192.168.1.2"})
	require.NotNil(t, s)
	assert.Equal(t, "239.0.0.1", s.Group)
	assert.Equal(t, 5004, s.Port)
	assert.Equal(t, []string{"192.168.1.2"}, s.Addresses)
	assert.Equal(t, "1.0", s.Version, "unversioned records use the first format")

	assert.Nil(t, sessionFromRecord("other", "b.local.", []string{"foo=bar"}, nil))
}

func TestAddressAggregation(t *testing.T) {
	addrs := mergeAddresses([]string{"10.0.0.1"}, []string{"10.0.0.1", "fe80::1"})
	assert.Equal(t, []string{"10.0.0.1", "fe80::1"}, addrs)

	addrs = removeAddresses(addrs, []string{"10.0.0.1"})
	assert.Equal(t, []string{"fe80::1"}, addrs)
}

type fixedAddress transport.Address

func (f fixedAddress) Address() transport.Address { return transport.Address(f) }

func TestAdvertiserInfo(t *testing.T) {
	src := fixedAddress{Group: "225.0.0.37", Port: 21928}
	a, err := NewAdvertiser(src, AdvertiserConfig{Instance: "netmidi-test", Name: "rehearsal"})
	require.NoError(t, err)

	assert.Equal(t, SessionInfo{Instance: "netmidi-test", Group: "225.0.0.37", Port: 21928, Name: "rehearsal", Version: "1.0"}, a.Info())
	assert.Equal(t, "advertiser", a.Name())

	// Not running: nothing to refresh.
	assert.NoError(t, a.Refresh())
}

func TestNewAdvertiserDefaultInstance(t *testing.T) {
	a, err := NewAdvertiser(fixedAddress{Group: "225.0.0.37", Port: 1}, AdvertiserConfig{})
	require.NoError(t, err)
	assert.Contains(t, a.Info().Instance, "netmidi-")
}
