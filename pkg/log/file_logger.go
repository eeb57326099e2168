package log

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/flock"
)

// ErrCaptureLocked is returned when another process is already writing the
// capture file.
var ErrCaptureLocked = errors.New("capture file is locked by another writer")

// FileLogger writes protocol events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines. A sidecar
// "<path>.lock" file keeps two processes from interleaving events.
type FileLogger struct {
	file    *os.File
	lock    *flock.Flock
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileLogger creates a new FileLogger that appends to the specified path.
// The file is created with permissions 0644 if it doesn't exist.
func NewFileLogger(path string) (*FileLogger, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock capture file %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCaptureLocked, path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return &FileLogger{
		file:    f,
		lock:    lock,
		encoder: NewEncoder(f),
	}, nil
}

// Log writes an event to the capture file.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Capture must never disrupt the data path.
	_ = l.encoder.Encode(event)
}

// Close closes the capture file and releases the writer lock.
// It is safe to call Close multiple times; later Log calls are ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	err := l.file.Close()
	if unlockErr := l.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// Compile-time interface satisfaction check.
var _ Logger = (*FileLogger)(nil)
