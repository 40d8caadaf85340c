// Package param owns the set of controllable parameters: the knob
// adjusts the selected one, the button cycles the selection, and every
// accepted adjustment emits a MIDI control change event.
package param

import "fmt"

// Parameter is one controllable attribute. Identity (name, channel,
// control and bounds) is fixed at construction; only Value changes, and
// stays within [Min, Max].
type Parameter struct {
	Name    string
	Channel uint8 // MIDI channel, 0-15 on the wire
	Control uint8 // control change number
	Min     uint8
	Max     uint8
	Value   uint8

	// Format renders the value for a display. Optional.
	Format func(uint8) string
}

// Human returns the display form of the current value.
func (p Parameter) Human() string {
	if p.Format != nil {
		return p.Format(p.Value)
	}
	return fmt.Sprintf("%d", p.Value)
}

// Event is a fully formed outbound control change message.
type Event struct {
	Channel uint8
	Control uint8
	Value   uint8
}

// Snapshot is a read-only copy of the parameter set handed to the
// display renderer. Mutating it has no effect on the store.
type Snapshot struct {
	Params   []Parameter
	Selected int
}

// MapRange maps v from [oldLo, oldHi] onto [newLo, newHi]. Used by
// display formatters, e.g. a 0-100 level shown as 0-1000 ms.
func MapRange(oldLo, oldHi, newLo, newHi uint32, v uint8) uint32 {
	if oldHi == oldLo {
		return newLo
	}
	return newLo + uint32(v)*(newHi-newLo)/(oldHi-oldLo)
}
