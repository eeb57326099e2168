// Package feed pushes service status, activity and MIDI traffic to
// websocket clients such as display widgets.
//
// Every frame is one JSON object:
//
//	{"type":"status","time":"...","source":"midi","status":"ACTIVE","previous":"STOPPED"}
//	{"type":"activity","time":"...","source":"midi","name":"receive","active":true}
//	{"type":"midi","time":"...","source":"midi","direction":"IN","kind":"NOTE_ON","channel":1,"data":"903c64"}
//
// The feed is one-way. Anything a client sends is read and discarded.
package feed

import (
	"encoding/hex"
	"time"

	"github.com/netmidi/netmidi-go/pkg/activity"
	"github.com/netmidi/netmidi-go/pkg/midi"
	"github.com/netmidi/netmidi-go/pkg/service"
	"github.com/netmidi/netmidi-go/pkg/wire"
)

// Message types.
const (
	TypeStatus   = "status"
	TypeActivity = "activity"
	TypeMIDI     = "midi"
)

// Message is one feed frame.
type Message struct {
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
	Source string    `json:"source,omitempty"`

	// Status messages.
	Status   string `json:"status,omitempty"`
	Previous string `json:"previous,omitempty"`
	Error    string `json:"error,omitempty"`

	// Activity messages.
	Name   string `json:"name,omitempty"`
	Active *bool  `json:"active,omitempty"`

	// MIDI messages.
	Direction   string `json:"direction,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Channel     int    `json:"channel,omitempty"`
	Data        string `json:"data,omitempty"`
	Description string `json:"description,omitempty"`
}

// StatusMessage converts a status change.
func StatusMessage(change service.StatusChange) Message {
	msg := Message{
		Type:     TypeStatus,
		Time:     time.Now(),
		Source:   change.Name,
		Status:   change.New.String(),
		Previous: change.Old.String(),
	}
	if change.Err != nil {
		msg.Error = change.Err.Error()
	}
	return msg
}

// ActivityMessage converts an activity flip observed on source.
func ActivityMessage(source string, change activity.Change) Message {
	active := change.Active
	return Message{
		Type:   TypeActivity,
		Time:   change.At,
		Source: source,
		Name:   change.Name,
		Active: &active,
	}
}

// MIDIMessage converts a decoded MIDI message seen on source.
func MIDIMessage(source string, m midi.Message) Message {
	return Message{
		Type:        TypeMIDI,
		Time:        m.At,
		Source:      source,
		Direction:   m.Direction.String(),
		Kind:        m.Event.Kind.String(),
		Channel:     m.Event.Channel,
		Data:        hex.EncodeToString(m.Raw),
		Description: wire.Describe(m.Raw),
	}
}
