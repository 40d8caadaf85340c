// Package button turns press edges from a momentary button into
// single-slot notifications, enforcing a minimum re-trigger interval so
// one physical press never counts twice.
package button

import (
	"context"
	"time"

	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/events"
)

// DefaultHoldoff is the minimum interval between two accepted presses.
const DefaultHoldoff = 200 * time.Millisecond

// Line delivers press edges. WaitForPress blocks until the next edge
// or context cancellation.
type Line interface {
	WaitForPress(ctx context.Context) error
}

// SimLine is an in-memory Line pressed programmatically, used by the
// simulator UI and tests.
type SimLine struct {
	presses chan struct{}
}

func NewSimLine() *SimLine {
	return &SimLine{presses: make(chan struct{}, 8)}
}

// Press registers one press edge. Never blocks; edges arriving faster
// than the watcher consumes them coalesce into the channel buffer.
func (l *SimLine) Press() {
	select {
	case l.presses <- struct{}{}:
	default:
	}
}

func (l *SimLine) WaitForPress(ctx context.Context) error {
	select {
	case <-l.presses:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watcher forwards debounced presses to a signal.
type Watcher struct {
	line    Line
	signal  *events.Signal
	holdoff time.Duration
}

func NewWatcher(line Line, signal *events.Signal, holdoff time.Duration) *Watcher {
	if holdoff <= 0 {
		holdoff = DefaultHoldoff
	}
	return &Watcher{line: line, signal: signal, holdoff: holdoff}
}

// Run waits for presses until the context is cancelled. Edges arriving
// within the holdoff interval of the last accepted press are consumed
// and ignored.
func (w *Watcher) Run(ctx context.Context) error {
	var last time.Time
	for {
		if err := w.line.WaitForPress(ctx); err != nil {
			return err
		}
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < w.holdoff {
			debug.Log("button", "bounce ignored")
			continue
		}
		last = now
		debug.Log("button", "pressed")
		w.signal.Notify()
	}
}
