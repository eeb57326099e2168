// Package version holds the session format version that nodes advertise
// over discovery and the release string printed by --version.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the session format spoken by this build. A node only joins
// sessions whose major number matches.
const Current = "1.0"

// Build is the release version, set at link time with
// -ldflags "-X github.com/netmidi/netmidi-go/pkg/version.Build=v1.2.3".
var Build = "dev"

var current = mustParse(Current)

// FormatVersion is a parsed "major.minor" session format version.
type FormatVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (FormatVersion, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return FormatVersion{}, fmt.Errorf("version %q: want major.minor", s)
	}
	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return FormatVersion{}, fmt.Errorf("version %q: major: %w", s, err)
	}
	// "1.0.0" leaves "0.0" here, which ParseUint rejects.
	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return FormatVersion{}, fmt.Errorf("version %q: minor: %w", s, err)
	}
	return FormatVersion{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

func mustParse(s string) FormatVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v FormatVersion) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
}

// Compatible reports whether sessions of format v and other can be mixed.
// Minor revisions only add optional fields.
func (v FormatVersion) Compatible(other FormatVersion) bool {
	return v.Major == other.Major
}

// CompatibleWithCurrent reports whether a remote session's format string
// is one this build can join.
func CompatibleWithCurrent(s string) bool {
	other, err := Parse(s)
	return err == nil && current.Compatible(other)
}

// String returns the text printed by --version.
func String() string {
	return Build + " (session format " + Current + ")"
}
