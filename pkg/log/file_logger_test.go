package log

import (
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mcap")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	in := NewFrameEvent("sess-1", DirectionIn, "10.0.0.2:21928", []byte{0x90, 0x3C, 0x64})
	logger.Log(in)
	logger.Log(Event{
		Timestamp: time.Now(),
		Layer:     LayerWire,
		Category:  CategoryMessage,
		Message:   &MessageEvent{Kind: "NOTE_ON", Channel: 1, Data: []byte{0x90, 0x3C, 0x64}},
	})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].SessionID != "sess-1" || events[0].Frame == nil || events[0].Frame.Size != 3 {
		t.Errorf("frame event not preserved: %+v", events[0])
	}
	if events[1].Message == nil || events[1].Message.Kind != "NOTE_ON" {
		t.Errorf("message event not preserved: %+v", events[1])
	}
}

func TestFileLoggerRejectsSecondWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.mcap")

	first, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	_, err = NewFileLogger(path)
	if !errors.Is(err, ErrCaptureLocked) {
		t.Fatalf("expected ErrCaptureLocked, got %v", err)
	}

	first.Close()

	second, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("reopen after Close failed: %v", err)
	}
	second.Close()
}

func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	logger, err := NewFileLogger(filepath.Join(t.TempDir(), "x.mcap"))
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	// Ignored after close.
	logger.Log(Event{Timestamp: time.Now()})
}

func TestFileLoggerConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.mcap")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(NewFrameEvent("s", DirectionOut, "", []byte{0xB0, 7, byte(j)}))
			}
		}()
	}
	wg.Wait()
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		count++
	}
	if count != 200 {
		t.Errorf("got %d events, want 200", count)
	}
}

func TestNewFrameEventTruncates(t *testing.T) {
	big := make([]byte, MaxFrameDataSize+10)
	ev := NewFrameEvent("s", DirectionIn, "", big)

	if !ev.Frame.Truncated {
		t.Error("expected Truncated")
	}
	if len(ev.Frame.Data) != MaxFrameDataSize {
		t.Errorf("data len = %d, want %d", len(ev.Frame.Data), MaxFrameDataSize)
	}
	if ev.Frame.Size != len(big) {
		t.Errorf("size = %d, want %d", ev.Frame.Size, len(big))
	}
}
