package param

import (
	"math"
	"testing"

	"github.com/valivia/staas/events"
)

func testParams() []Parameter {
	return []Parameter{
		{Name: "Delay", Channel: 0, Control: 20, Min: 0, Max: 100, Value: 15},
		{Name: "Feedback", Channel: 0, Control: 21, Min: 10, Max: 90, Value: 50},
	}
}

func TestNewStoreValidates(t *testing.T) {
	q := events.NewQueue[Event](4)
	for _, c := range []struct {
		name   string
		params []Parameter
	}{
		{"empty", nil},
		{"min above max", []Parameter{{Name: "x", Min: 10, Max: 5, Value: 10}}},
		{"max above 7 bits", []Parameter{{Name: "x", Min: 0, Max: 200, Value: 0}}},
		{"value out of bounds", []Parameter{{Name: "x", Min: 10, Max: 20, Value: 5}}},
		{"channel out of range", []Parameter{{Name: "x", Channel: 16, Max: 100, Value: 0}}},
	} {
		if _, err := NewStore(c.params, q); err == nil {
			t.Errorf("%s: NewStore accepted invalid table", c.name)
		}
	}
}

func TestAdjustNeverEscapesBounds(t *testing.T) {
	q := events.NewQueue[Event](4)
	s, err := NewStore(testParams(), q)
	if err != nil {
		t.Fatal(err)
	}
	s.NextOption() // Feedback, bounds [10, 90]

	for _, delta := range []int16{5, -200, math.MaxInt16, 1, math.MinInt16, -1, 77, 13, -90} {
		s.AdjustSelected(delta)
		q.TryPop() // keep the queue from filling
		snap := s.Snapshot()
		p := snap.Params[snap.Selected]
		if p.Value < p.Min || p.Value > p.Max {
			t.Fatalf("after delta %d: value %d escaped [%d, %d]", delta, p.Value, p.Min, p.Max)
		}
	}
}

func TestAdjustEmitsEvent(t *testing.T) {
	q := events.NewQueue[Event](4)
	s, err := NewStore(testParams(), q)
	if err != nil {
		t.Fatal(err)
	}

	s.AdjustSelected(10)
	ev, ok := q.TryPop()
	if !ok {
		t.Fatal("no event after adjustment")
	}
	want := Event{Channel: 0, Control: 20, Value: 25}
	if ev != want {
		t.Errorf("event = %+v, want %+v", ev, want)
	}

	// An adjustment absorbed by clamping still re-sends the value.
	s.AdjustSelected(1000)
	if ev, ok := q.TryPop(); !ok || ev.Value != 100 {
		t.Errorf("clamped adjustment event = %+v, %v, want value 100", ev, ok)
	}
	s.AdjustSelected(5)
	if ev, ok := q.TryPop(); !ok || ev.Value != 100 {
		t.Errorf("saturated adjustment event = %+v, %v, want value 100", ev, ok)
	}
}

func TestAdjustDropsWhenQueueFull(t *testing.T) {
	q := events.NewQueue[Event](2)
	s, err := NewStore(testParams(), q)
	if err != nil {
		t.Fatal(err)
	}

	// Three adjustments against a queue of two: the third event is
	// dropped silently and the value still moves.
	s.AdjustSelected(1)
	s.AdjustSelected(1)
	s.AdjustSelected(1)

	if q.Len() != 2 {
		t.Errorf("queue holds %d events, want 2", q.Len())
	}
	snap := s.Snapshot()
	if got := snap.Params[0].Value; got != 18 {
		t.Errorf("value = %d, want 18", got)
	}
}

func TestNextOptionCycles(t *testing.T) {
	q := events.NewQueue[Event](4)
	s, err := NewStore(testParams(), q)
	if err != nil {
		t.Fatal(err)
	}

	if got := s.Snapshot().Selected; got != 0 {
		t.Fatalf("initial selection = %d", got)
	}
	s.NextOption()
	if got := s.Snapshot().Selected; got != 1 {
		t.Errorf("after one press: selection = %d, want 1", got)
	}
	s.NextOption()
	if got := s.Snapshot().Selected; got != 0 {
		t.Errorf("after two presses: selection = %d, want 0", got)
	}
	if q.Len() != 0 {
		t.Errorf("selection emitted %d events, want none", q.Len())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	q := events.NewQueue[Event](4)
	s, err := NewStore(testParams(), q)
	if err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	snap.Params[0].Value = 99
	snap.Selected = 1

	if got := s.Snapshot().Params[0].Value; got != 15 {
		t.Errorf("mutating the snapshot changed the store (value %d)", got)
	}
	if got := s.Snapshot().Selected; got != 0 {
		t.Errorf("mutating the snapshot changed the selection (%d)", got)
	}
}

func TestRepeatedDecrementScenario(t *testing.T) {
	q := events.NewQueue[Event](16)
	s, err := NewStore([]Parameter{
		{Name: "Level", Channel: 0, Control: 0, Min: 0, Max: 127, Value: 100},
	}, q)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []uint8{95, 90, 85} {
		s.AdjustSelected(-5)
		ev, ok := q.TryPop()
		if !ok {
			t.Fatalf("no event for expected value %d", want)
		}
		if ev != (Event{Channel: 0, Control: 0, Value: want}) {
			t.Errorf("event = %+v, want value %d", ev, want)
		}
	}
}

func TestMapRange(t *testing.T) {
	for _, c := range []struct {
		oldLo, oldHi, newLo, newHi uint32
		v                          uint8
		want                       uint32
	}{
		{0, 100, 0, 1000, 0, 0},
		{0, 100, 0, 1000, 50, 500},
		{0, 100, 0, 1000, 100, 1000},
		{0, 100, 0, 100, 37, 37},
		{0, 0, 5, 10, 3, 5},
	} {
		if got := MapRange(c.oldLo, c.oldHi, c.newLo, c.newHi, c.v); got != c.want {
			t.Errorf("MapRange(%d, %d, %d, %d, %d) = %d, want %d",
				c.oldLo, c.oldHi, c.newLo, c.newHi, c.v, got, c.want)
		}
	}
}
