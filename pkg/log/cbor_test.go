package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
)

func TestCaptureKeepsNanoseconds(t *testing.T) {
	at := time.Date(2026, 3, 14, 20, 0, 0, 123456789, time.UTC)

	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(Event{Timestamp: at, Frame: &FrameEvent{Data: []byte{0x90, 0x3C, 0x64}}}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var got Event
	if err := NewDecoder(&buf).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, at)
	}
	if got.Frame == nil || !bytes.Equal(got.Frame.Data, []byte{0x90, 0x3C, 0x64}) {
		t.Errorf("Frame = %+v, want note-on bytes", got.Frame)
	}
}

func TestCaptureSkipsUnknownKeys(t *testing.T) {
	// A newer writer added key 99.
	data, err := cbor.Marshal(map[int]any{2: "sess", 6: "midi", 99: "future"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Event
	if err := NewDecoder(bytes.NewReader(data)).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SessionID != "sess" || got.Service != "midi" {
		t.Errorf("got session %q service %q", got.SessionID, got.Service)
	}
}
