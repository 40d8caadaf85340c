package events

import (
	"context"
	"testing"
	"time"
)

func TestWatchLatestWins(t *testing.T) {
	w := NewWatch[int]()
	r := w.Receiver()

	if _, ok := r.TryChanged(); ok {
		t.Error("TryChanged reported a value before any send")
	}

	w.Send(1)
	w.Send(2)
	w.Send(3)

	got, ok := r.TryChanged()
	if !ok || got != 3 {
		t.Errorf("TryChanged = %d, %v, want 3, true", got, ok)
	}
	if _, ok := r.TryChanged(); ok {
		t.Error("TryChanged returned the same value twice")
	}
}

func TestWatchIndependentReceivers(t *testing.T) {
	w := NewWatch[int]()
	a := w.Receiver()
	w.Send(7)
	b := w.Receiver()

	if got, ok := a.TryChanged(); !ok || got != 7 {
		t.Errorf("receiver a: got %d, %v", got, ok)
	}
	if got, ok := b.TryChanged(); !ok || got != 7 {
		t.Errorf("receiver b: got %d, %v", got, ok)
	}

	w.Send(8)
	if got, ok := a.TryChanged(); !ok || got != 8 {
		t.Errorf("receiver a after second send: got %d, %v", got, ok)
	}
}

func TestWatchChangedBlocks(t *testing.T) {
	w := NewWatch[int]()
	r := w.Receiver()

	done := make(chan int, 1)
	go func() {
		v, err := r.Changed(context.Background())
		if err != nil {
			t.Errorf("Changed: %v", err)
		}
		done <- v
	}()

	select {
	case v := <-done:
		t.Fatalf("Changed returned %d before a send", v)
	case <-time.After(20 * time.Millisecond):
	}

	w.Send(42)
	select {
	case v := <-done:
		if v != 42 {
			t.Errorf("Changed = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Changed did not wake after send")
	}
}

func TestWatchChangedCancel(t *testing.T) {
	w := NewWatch[int]()
	r := w.Receiver()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Changed(ctx); err == nil {
		t.Error("Changed returned nil error on cancelled context")
	}
}

func TestWatchReady(t *testing.T) {
	w := NewWatch[int]()
	r := w.Receiver()

	select {
	case <-r.Ready():
		t.Fatal("Ready fired with nothing sent")
	default:
	}

	w.Send(1)
	select {
	case <-r.Ready():
	default:
		t.Fatal("Ready did not fire after send")
	}

	r.TryChanged()
	select {
	case <-r.Ready():
		t.Fatal("Ready fired again after value was consumed")
	default:
	}
}
