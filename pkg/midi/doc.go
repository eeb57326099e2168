// Package midi layers the wire codec onto a raw MIDI service.
//
// Outgoing calls (SendNoteOn, SendControlChange, SendSysEx, ...) are no-ops
// unless the service is ACTIVE; otherwise they encode, send and notify
// listeners. Incoming messages are dissected and dispatched as typed
// events. Malformed input never reaches the caller or changes the service
// status: it is counted, timestamped as the "rx error" activity and logged.
package midi
