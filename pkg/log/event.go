package log

import "time"

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one start-to-stop run of a transport (UUID).
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Service is the name of the service that produced the event.
	Service string `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the datagram source (inbound) or the group (outbound).
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Service status
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the datagram layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the MIDI codec layer (decoded messages).
	LayerWire Layer = 1
	// LayerService is the service lifecycle layer.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// ParseLayer converts a case-insensitive layer name to a Layer.
func ParseLayer(s string) (Layer, bool) {
	switch s {
	case "transport", "TRANSPORT":
		return LayerTransport, true
	case "wire", "WIRE":
		return LayerWire, true
	case "service", "SERVICE":
		return LayerService, true
	}
	return 0, false
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a MIDI payload (raw or decoded).
	CategoryMessage Category = 0
	// CategoryState indicates a status change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a raw datagram payload at the transport layer.
type FrameEvent struct {
	// Size is the payload size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the payload (may be truncated for large SysEx dumps).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded MIDI message at the wire layer.
type MessageEvent struct {
	// Kind is the dissected message kind (e.g. NOTE_ON, SYSTEM_COMMON_SYSEX).
	Kind string `cbor:"1,keyasint"`

	// Channel is the 1-based MIDI channel (0 for SysEx and invalid messages).
	Channel uint8 `cbor:"2,keyasint,omitempty"`

	// Data is the raw message.
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Description is a human-readable rendering of the message.
	Description string `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent captures service and session lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityService indicates a service status change.
	StateEntityService StateEntity = 0
	// StateEntitySession indicates a transport session opened or closed.
	StateEntitySession StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityService:
		return "SERVICE"
	case StateEntitySession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}

// MaxFrameDataSize is the maximum payload size copied into a FrameEvent.
const MaxFrameDataSize = 4096

// NewFrameEvent builds a transport-layer frame event, truncating large payloads.
func NewFrameEvent(sessionID string, dir Direction, remote string, data []byte) Event {
	frameData := data
	truncated := false
	if len(data) > MaxFrameDataSize {
		frameData = data[:MaxFrameDataSize]
		truncated = true
	}
	return Event{
		Timestamp:  time.Now(),
		SessionID:  sessionID,
		Direction:  dir,
		Layer:      LayerTransport,
		Category:   CategoryMessage,
		RemoteAddr: remote,
		Frame: &FrameEvent{
			Size:      len(data),
			Data:      frameData,
			Truncated: truncated,
		},
	}
}

// NewErrorEvent builds an error event for the given layer.
func NewErrorEvent(service string, layer Layer, err error, context string) Event {
	return Event{
		Timestamp: time.Now(),
		Layer:     layer,
		Category:  CategoryError,
		Service:   service,
		Error: &ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	}
}
