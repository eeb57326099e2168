// Package recovery restarts failed services from the owner's side.
//
// Services never recover on their own: ERROR stays until someone stops or
// restarts them. A Supervisor is that someone. It watches one target and,
// when the target reaches ERROR, waits for the next backoff delay and calls
// Restart.
//
// # Backoff
//
//  1. Initial delay: 500 milliseconds
//  2. Exponential increase: 1s, 2s, 4s, 8s, 16s
//  3. Maximum delay: 30 seconds
//  4. Reset once the target has stayed up for StableAfter
//
// Jitter spreads restarts of several processes sharing a group:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
package recovery
