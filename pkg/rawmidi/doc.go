// Package rawmidi binds a multicast Transport as the I/O channel for raw
// MIDI byte messages.
//
// The Service is a single-child composite: its status follows the
// transport's, and a transport failure puts it into ERROR. Received and sent
// messages are re-published to raw listeners without interpretation.
package rawmidi
