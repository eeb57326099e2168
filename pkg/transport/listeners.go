package transport

import (
	"net"
	"time"
)

// Message is one received datagram.
type Message struct {
	Payload  []byte
	Source   net.Addr
	Received time.Time
}

// MessageListener receives datagrams on the delivery goroutine.
// Implementations must be comparable.
type MessageListener interface {
	MessageReceived(msg Message)
}

type messageFunc struct {
	fn func(Message)
}

func (f *messageFunc) MessageReceived(m Message) { f.fn(m) }

// OnMessage adapts a function into a MessageListener.
func OnMessage(fn func(Message)) MessageListener {
	return &messageFunc{fn: fn}
}

// SettingsChange reports an accepted reconfiguration.
type SettingsChange struct {
	Old Address
	New Address
}

// SettingsListener receives settings changes. Implementations must be
// comparable.
type SettingsListener interface {
	SettingsChanged(change SettingsChange)
}

type settingsFunc struct {
	fn func(SettingsChange)
}

func (f *settingsFunc) SettingsChanged(c SettingsChange) { f.fn(c) }

// OnSettingsChange adapts a function into a SettingsListener.
func OnSettingsChange(fn func(SettingsChange)) SettingsListener {
	return &settingsFunc{fn: fn}
}
