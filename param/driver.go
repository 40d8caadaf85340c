package param

import (
	"context"

	"github.com/valivia/staas/events"
)

// Driver is the store's control loop: it waits for whichever comes
// first of a new encoder delta or a button press and dispatches to the
// matching store operation.
type Driver struct {
	store   *Store
	delta   *events.Receiver[int16]
	button  *events.Signal
	updates chan struct{}
}

func NewDriver(store *Store, delta *events.Receiver[int16], button *events.Signal) *Driver {
	return &Driver{
		store:   store,
		delta:   delta,
		button:  button,
		updates: make(chan struct{}, 1),
	}
}

// Updates signals that the store changed; the display renderer listens
// on it. Capacity one, notifications collapse.
func (d *Driver) Updates() <-chan struct{} {
	return d.updates
}

// Run dispatches until the context is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.delta.Ready():
			if delta, ok := d.delta.TryChanged(); ok {
				d.store.AdjustSelected(delta)
			}
		case <-d.button.C():
			d.store.NextOption()
		}

		select {
		case d.updates <- struct{}{}:
		default:
		}
	}
}
