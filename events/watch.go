// Package events holds the small concurrency primitives shared by the
// device activities: a latest-value broadcast cell, a single-slot event
// signal and a bounded non-blocking queue.
package events

import (
	"context"
	"sync"
)

// closed is returned by Receiver.Ready when an unseen value is already
// available, so a select over Ready fires immediately.
var closed = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Watch is a single-writer broadcast cell holding only the most recent
// value. Any number of receivers read it, each tracking its own cursor:
// a slow receiver never blocks the sender and may skip intermediate
// values, observing only the latest.
type Watch[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	wake    chan struct{}
}

func NewWatch[T any]() *Watch[T] {
	return &Watch[T]{wake: make(chan struct{})}
}

// Send replaces the stored value and wakes every waiting receiver.
// Never blocks.
func (w *Watch[T]) Send(v T) {
	w.mu.Lock()
	w.value = v
	w.version++
	close(w.wake)
	w.wake = make(chan struct{})
	w.mu.Unlock()
}

// Receiver returns a new independent reader. It has not seen any value
// yet, so the first Changed call returns whatever is current once
// something has been sent.
func (w *Watch[T]) Receiver() *Receiver[T] {
	return &Receiver[T]{w: w}
}

// Receiver reads a Watch with its own "seen" cursor. Not safe for use
// from multiple goroutines; create one receiver per reader.
type Receiver[T any] struct {
	w    *Watch[T]
	seen uint64
}

// Changed blocks until the watch holds a value this receiver has not
// seen, then returns it and advances the cursor.
func (r *Receiver[T]) Changed(ctx context.Context) (T, error) {
	for {
		if v, ok := r.TryChanged(); ok {
			return v, nil
		}
		r.w.mu.Lock()
		wake := r.w.wake
		r.w.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryChanged returns the latest value if this receiver has not seen it,
// without blocking.
func (r *Receiver[T]) TryChanged() (T, bool) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.version == r.seen {
		var zero T
		return zero, false
	}
	r.seen = r.w.version
	return r.w.value, true
}

// Ready returns a channel that is receivable as soon as an unseen value
// exists. It is meant for select joins over several sources; follow a
// wakeup with TryChanged to consume the value.
func (r *Receiver[T]) Ready() <-chan struct{} {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	if r.w.version > r.seen {
		return closed
	}
	return r.w.wake
}
