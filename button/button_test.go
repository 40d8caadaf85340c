package button

import (
	"context"
	"testing"
	"time"

	"github.com/valivia/staas/events"
)

func TestWatcherDebounces(t *testing.T) {
	line := NewSimLine()
	sig := events.NewSignal()
	w := NewWatcher(line, sig, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// A burst of edges within the holdoff counts once.
	line.Press()
	line.Press()
	line.Press()

	select {
	case <-sig.C():
	case <-time.After(time.Second):
		t.Fatal("press not signalled")
	}

	select {
	case <-sig.C():
		t.Fatal("bounce within the holdoff was signalled")
	case <-time.After(80 * time.Millisecond):
	}

	// After the holdoff a new press is accepted again.
	line.Press()
	select {
	case <-sig.C():
	case <-time.After(time.Second):
		t.Fatal("press after holdoff not signalled")
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	line := NewSimLine()
	sig := events.NewSignal()
	w := NewWatcher(line, sig, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("Run returned nil after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
