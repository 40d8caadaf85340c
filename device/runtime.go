// Package device assembles the controller runtime: encoder decoder,
// parameter store driver, button watcher and USB MIDI transport, each
// running as its own activity over explicitly shared queues and cells.
package device

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/valivia/staas/button"
	"github.com/valivia/staas/config"
	"github.com/valivia/staas/encoder"
	"github.com/valivia/staas/events"
	"github.com/valivia/staas/param"
	"github.com/valivia/staas/transport"
)

// OutboundQueueSize bounds the control change events waiting for the
// link. A full queue drops new events; the next adjustment re-sends.
const OutboundQueueSize = 16

// Runtime wires the activities together. Construct with New, then Run
// blocks until the context is cancelled or an activity fails.
type Runtime struct {
	store     *param.Store
	driver    *param.Driver
	decoder   *encoder.Decoder
	watcher   *button.Watcher
	transport *transport.Transport
}

// New builds a runtime from the config on the given link, counter and
// button line.
func New(cfg *config.Config, lnk transport.Link, counter encoder.Counter, line button.Line) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := make([]param.Parameter, len(cfg.Parameters))
	for i, pc := range cfg.Parameters {
		params[i] = param.Parameter{
			Name:    pc.Name,
			Channel: pc.Channel - 1, // wire channels are 0-based
			Control: pc.Control,
			Min:     pc.Min,
			Max:     pc.Max,
			Value:   pc.Value,
			Format:  formatter(pc),
		}
	}

	out := events.NewQueue[param.Event](OutboundQueueSize)
	store, err := param.NewStore(params, out)
	if err != nil {
		return nil, err
	}

	pressed := events.NewSignal()
	dec := encoder.NewDecoder(counter, msOrZero(cfg.Timing.PollMs))

	return &Runtime{
		store:     store,
		driver:    param.NewDriver(store, dec.Delta().Receiver(), pressed),
		decoder:   dec,
		watcher:   button.NewWatcher(line, pressed, msOrZero(cfg.Timing.DebounceMs)),
		transport: transport.New(lnk, out, identity(cfg.Identity), msOrZero(cfg.Timing.YieldMs)),
	}, nil
}

// Run starts the four activities and blocks until the first one stops.
func (r *Runtime) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.decoder.Run(ctx) })
	g.Go(func() error { return r.driver.Run(ctx) })
	g.Go(func() error { return r.watcher.Run(ctx) })
	g.Go(func() error { return r.transport.Run(ctx) })
	return g.Wait()
}

// Snapshot exposes the read-only parameter view for a renderer.
func (r *Runtime) Snapshot() param.Snapshot {
	return r.store.Snapshot()
}

// Updates notifies a renderer that the parameter set changed.
func (r *Runtime) Updates() <-chan struct{} {
	return r.driver.Updates()
}

func identity(ic config.IdentityConfig) transport.Identity {
	return transport.Identity{
		Manufacturer: ic.Manufacturer,
		Family:       ic.Family,
		Model:        ic.Model,
		Revision:     ic.Revision,
	}
}

func formatter(pc config.ParameterConfig) func(uint8) string {
	if pc.Unit == "" {
		return nil
	}
	lo, hi := uint32(pc.Min), uint32(pc.Max)
	return func(v uint8) string {
		return fmt.Sprintf("%d %s", param.MapRange(lo, hi, pc.DisplayMin, pc.DisplayMax, v), pc.Unit)
	}
}

func msOrZero(ms int) time.Duration {
	if ms <= 0 {
		return 0 // constructors substitute their defaults
	}
	return time.Duration(ms) * time.Millisecond
}
