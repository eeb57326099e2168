package version

import (
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		input string
		major uint16
		minor uint16
	}{
		{"1.0", 1, 0},
		{"1.1", 1, 1},
		{"2.0", 2, 0},
		{"10.23", 10, 23},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Major != tt.major || v.Minor != tt.minor {
				t.Errorf("Parse(%q) = %d.%d, want %d.%d", tt.input, v.Major, v.Minor, tt.major, tt.minor)
			}
			if v.String() != tt.input {
				t.Errorf("String() = %q, want %q", v.String(), tt.input)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "1", "abc", "1.0.0", "1.x", "-1.0", ".1"} {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	v10, _ := Parse("1.0")
	v11, _ := Parse("1.1")
	v20, _ := Parse("2.0")

	if !v10.Compatible(v11) || !v11.Compatible(v10) {
		t.Error("1.0 and 1.1 should be compatible")
	}
	if v10.Compatible(v20) || v20.Compatible(v10) {
		t.Error("1.0 and 2.0 should not be compatible")
	}
}

func TestCompatibleWithCurrent(t *testing.T) {
	if !CompatibleWithCurrent(Current) {
		t.Error("Current should be compatible with itself")
	}
	if !CompatibleWithCurrent("1.7") {
		t.Error("1.7 should be compatible with 1.0")
	}
	if CompatibleWithCurrent("2.0") {
		t.Error("2.0 should not be compatible with 1.0")
	}
	if CompatibleWithCurrent("garbage") {
		t.Error("unparsable versions are never compatible")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, Build) || !strings.Contains(s, Current) {
		t.Errorf("String() = %q, want build and format versions", s)
	}
}
