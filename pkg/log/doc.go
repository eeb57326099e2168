// Package log provides structured protocol capture for netmidi.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, service).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable trace of what crossed the multicast socket and
// how it was interpreted.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to a capture file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/netmidi/session.mcap")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw datagram payloads (FrameEvent)
//   - Wire: decoded MIDI messages (MessageEvent)
//   - Service: status changes (StateChangeEvent)
//
// Errors (queue overflow, decode failure, socket failure) have a dedicated
// event type.
//
// # File Format
//
// Capture files are a concatenation of CBOR-encoded events with integer keys.
// The netmidi-log tool provides viewing, filtering and statistics.
package log
