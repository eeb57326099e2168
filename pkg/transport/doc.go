// Package transport moves opaque datagram payloads between an IPv4 UDP
// multicast group and in-process queues.
//
// # Goroutines
//
// While ACTIVE a Transport runs three goroutines:
//
//	receive   socket -> receive queue     (never blocks on a full queue)
//	deliver   receive queue -> listeners  (slow listeners stall only this)
//	transmit  transmit queue -> socket
//
// Transmit never blocks: it enqueues or reports a drop. Both queues are
// bounded and recreated empty on every start.
//
// # Shutdown
//
// Each start creates a session. Stop clears the session's mustRun flag
// before cancelling its context and closing the socket, so a goroutine that
// sees an I/O error can tell teardown from a real failure. Real failures move
// the transport to ERROR.
//
// # Defaults
//
//   - Group: 225.0.0.37
//   - Port: 21928
//   - Multicast loopback: enabled
//   - TTL: 1
package transport
