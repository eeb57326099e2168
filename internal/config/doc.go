// Package config loads netmidi node configuration from YAML or TOML files.
//
// A file only needs the keys it overrides; everything else keeps the value
// from Default. Durations are written as Go duration strings ("100ms").
package config
