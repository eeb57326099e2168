package feed

import (
	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/midi"
	"github.com/netmidi/netmidi-go/pkg/service"
)

// Bridge forwards events from one source to a Server. It implements
// service.StatusListener, activity.Listener and midi.Listener.
type Bridge struct {
	server *Server
	source string
}

// NewBridge creates a bridge tagging its messages with source.
func NewBridge(server *Server, source string) *Bridge {
	return &Bridge{server: server, source: source}
}

// StatusChanged implements service.StatusListener.
func (b *Bridge) StatusChanged(change service.StatusChange) {
	b.server.Broadcast(StatusMessage(change))
}

// ActivityChanged implements activity.Listener.
func (b *Bridge) ActivityChanged(change activity.Change) {
	b.server.Broadcast(ActivityMessage(b.source, change))
}

// MIDIMessage implements midi.Listener.
func (b *Bridge) MIDIMessage(m midi.Message) {
	b.server.Broadcast(MIDIMessage(b.source, m))
}

var (
	_ service.StatusListener = (*Bridge)(nil)
	_ activity.Listener      = (*Bridge)(nil)
	_ midi.Listener          = (*Bridge)(nil)
)
