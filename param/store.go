package param

import (
	"fmt"
	"sync"

	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/events"
)

// Store is the sole owner of the parameter set. Every operation takes
// the lock for just that call; the lock is never held across a wait.
type Store struct {
	mu       sync.Mutex
	params   []Parameter
	selected int
	out      *events.Queue[Event]
}

// NewStore validates the parameter table and wires the outbound event
// queue. Initial values outside a parameter's bounds are rejected.
func NewStore(params []Parameter, out *events.Queue[Event]) (*Store, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("param: empty parameter table")
	}
	for _, p := range params {
		if p.Min > p.Max {
			return nil, fmt.Errorf("param: %q: min %d > max %d", p.Name, p.Min, p.Max)
		}
		if p.Max > 127 {
			return nil, fmt.Errorf("param: %q: max %d exceeds the 7-bit MIDI range", p.Name, p.Max)
		}
		if p.Value < p.Min || p.Value > p.Max {
			return nil, fmt.Errorf("param: %q: initial value %d outside [%d, %d]", p.Name, p.Value, p.Min, p.Max)
		}
		if p.Channel > 15 {
			return nil, fmt.Errorf("param: %q: channel %d out of range", p.Name, p.Channel)
		}
	}
	return &Store{
		params: append([]Parameter(nil), params...),
		out:    out,
	}, nil
}

// AdjustSelected applies delta to the selected parameter, clamped to
// its bounds, and emits the resulting control change. The push onto
// the outbound queue never blocks; when the queue is full the event is
// dropped, since a later adjustment re-sends the current value anyway.
func (s *Store) AdjustSelected(delta int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &s.params[s.selected]
	// 16-bit intermediate so value+delta cannot wrap.
	v := int16(p.Value) + delta
	if v < int16(p.Min) {
		v = int16(p.Min)
	}
	if v > int16(p.Max) {
		v = int16(p.Max)
	}
	p.Value = uint8(v)

	debug.Log("param", "%s adjusted to %d (%+d)", p.Name, p.Value, delta)

	if !s.out.TryPush(Event{Channel: p.Channel, Control: p.Control, Value: p.Value}) {
		debug.Log("param", "outbound queue full, dropping cc %d=%d", p.Control, p.Value)
	}
}

// NextOption advances the selection cyclically. No MIDI side effect.
func (s *Store) NextOption() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = (s.selected + 1) % len(s.params)
	debug.Log("param", "selected %s", s.params[s.selected].Name)
}

// Snapshot copies the parameter list and selection for a renderer. The
// copy shares nothing with the store, so the caller may hold it for as
// long as it likes.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Params:   append([]Parameter(nil), s.params...),
		Selected: s.selected,
	}
}
