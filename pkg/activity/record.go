package activity

import (
	"slices"
	"sync"
	"time"
)

// Any is the whole-object key. Last(Any) is the latest of all activities.
const Any = ""

// Source exposes activity timestamps.
type Source interface {
	// LastActivity returns when name was last observed, or the zero time.
	LastActivity(name string) time.Time

	// ActivityNames lists the named activities the source maintains.
	ActivityNames() []string
}

// Record is a concurrency-safe map of activity name to last timestamp.
type Record struct {
	mu    sync.RWMutex
	names []string
	last  map[string]time.Time
}

// NewRecord creates a record that declares the given names up front, so
// they are listed by Names before the first observation.
func NewRecord(names ...string) *Record {
	r := &Record{last: make(map[string]time.Time)}
	for _, n := range names {
		r.declareLocked(n)
	}
	return r
}

// Touch records name as observed now and returns the timestamp.
func (r *Record) Touch(name string) time.Time {
	now := time.Now()
	r.TouchAt(name, now)
	return now
}

// TouchAt records name as observed at t. Earlier timestamps never move a
// record backwards.
func (r *Record) TouchAt(name string, t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.declareLocked(name)
	if t.After(r.last[name]) {
		r.last[name] = t
	}
}

// Last returns when name was last observed, the zero time if never.
func (r *Record) Last(name string) time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name != Any {
		return r.last[name]
	}
	var latest time.Time
	for _, t := range r.last {
		if t.After(latest) {
			latest = t
		}
	}
	return latest
}

// Names returns the declared activity names in declaration order.
func (r *Record) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// Reset forgets every observation but keeps the declared names.
func (r *Record) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.last)
}

// LastActivity implements Source.
func (r *Record) LastActivity(name string) time.Time { return r.Last(name) }

// ActivityNames implements Source.
func (r *Record) ActivityNames() []string { return r.Names() }

func (r *Record) declareLocked(name string) {
	if name == Any || slices.Contains(r.names, name) {
		return
	}
	r.names = append(r.names, name)
}

// Compile-time interface satisfaction check.
var _ Source = (*Record)(nil)
