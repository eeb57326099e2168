package transport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// OverflowPolicy selects which item a full queue drops.
type OverflowPolicy uint8

const (
	// DropNewest refuses the item being offered. Favors completeness of
	// what is already queued.
	DropNewest OverflowPolicy = iota

	// DropOldest evicts the head of the queue to make room. Favors freshness.
	DropOldest
)

// String returns the policy name.
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "drop-newest"
	case DropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// ParseOverflowPolicy parses "drop-newest" or "drop-oldest".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "drop-newest", "newest":
		return DropNewest, nil
	case "drop-oldest", "oldest":
		return DropOldest, nil
	}
	return DropNewest, fmt.Errorf("%w: unknown overflow policy %q", ErrInvalidArgument, s)
}

// Queue is a bounded FIFO. Offer never blocks; Take blocks until an item is
// available or the context is done.
type Queue[T any] struct {
	ch      chan T
	policy  OverflowPolicy
	dropped atomic.Uint64
}

// NewQueue creates a queue holding at most capacity items.
func NewQueue[T any](capacity int, policy OverflowPolicy) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity), policy: policy}
}

// Offer enqueues item without blocking. accepted is false when the item was
// refused; overflow is true whenever the queue was full, whichever item was
// dropped.
func (q *Queue[T]) Offer(item T) (accepted, overflow bool) {
	select {
	case q.ch <- item:
		return true, false
	default:
	}

	q.dropped.Add(1)
	if q.policy == DropNewest {
		return false, true
	}

	for {
		select {
		case q.ch <- item:
			return true, true
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// Take removes and returns the head of the queue.
func (q *Queue[T]) Take(ctx context.Context) (T, error) {
	select {
	case item := <-q.ch:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Clear discards every queued item.
func (q *Queue[T]) Clear() {
	for {
		select {
		case <-q.ch:
		default:
			return
		}
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }

// Dropped returns how many items overflow has dropped.
func (q *Queue[T]) Dropped() uint64 { return q.dropped.Load() }
