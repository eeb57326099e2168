package listener

import (
	"sync"
	"sync/atomic"
)

// Registry is an insertion-ordered set of listeners with copy-on-write reads.
// The zero value is ready to use.
type Registry[L comparable] struct {
	mu       sync.Mutex
	items    []L
	snapshot atomic.Pointer[[]L]
}

// Add registers l. It returns false if l was already registered.
func (r *Registry[L]) Add(l L) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing == l {
			return false
		}
	}
	next := make([]L, len(r.items), len(r.items)+1)
	copy(next, r.items)
	next = append(next, l)
	r.publish(next)
	return true
}

// Remove unregisters l. Removing an unknown listener is a no-op that
// returns false.
func (r *Registry[L]) Remove(l L) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.items {
		if existing != l {
			continue
		}
		next := make([]L, 0, len(r.items)-1)
		next = append(next, r.items[:i]...)
		next = append(next, r.items[i+1:]...)
		r.publish(next)
		return true
	}
	return false
}

// Clear removes every listener without notifying any of them.
func (r *Registry[L]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publish(nil)
}

// Snapshot returns the listeners registered at the time of the call.
// The returned slice is shared and must not be modified.
func (r *Registry[L]) Snapshot() []L {
	p := r.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Len returns the number of registered listeners.
func (r *Registry[L]) Len() int {
	return len(r.Snapshot())
}

// Each calls fn for every listener in the current snapshot.
func (r *Registry[L]) Each(fn func(L)) {
	for _, l := range r.Snapshot() {
		fn(l)
	}
}

// publish must be called with mu held.
func (r *Registry[L]) publish(next []L) {
	r.items = next
	r.snapshot.Store(&next)
}
