package events

import "context"

// Signal is a single-slot event notifier: it holds at most one pending
// notification, which is cleared by the act of observing it. Notifying
// while a notification is already pending is a no-op, so lost wakeups
// cannot occur but bursts collapse into one delivery.
type Signal struct {
	ch chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify sets the pending slot. Never blocks.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until a notification is pending, consuming it.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// C exposes the slot for use in select joins; receiving from it
// consumes the pending notification.
func (s *Signal) C() <-chan struct{} {
	return s.ch
}
