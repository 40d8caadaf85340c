package encoder

import (
	"context"
	"time"

	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/events"
)

const (
	// DefaultPollInterval is how often the raw count is sampled.
	DefaultPollInterval = 100 * time.Millisecond

	// CountMin and CountMax bound the published cumulative count.
	CountMin int16 = 0
	CountMax int16 = 100
)

// Decoder polls a Counter and publishes movement on two broadcast
// cells: every nonzero delta between consecutive samples, and the
// cumulative count clamped to [CountMin, CountMax] whenever it changes.
// An unchanged raw count publishes nothing, so idle polls wake nobody.
type Decoder struct {
	counter  Counter
	interval time.Duration

	delta *events.Watch[int16]
	count *events.Watch[int16]

	last  int16
	total int16
}

func NewDecoder(counter Counter, interval time.Duration) *Decoder {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Decoder{
		counter:  counter,
		interval: interval,
		delta:    events.NewWatch[int16](),
		count:    events.NewWatch[int16](),
	}
}

// Delta is the broadcast cell carrying the signed movement since the
// previous sample.
func (d *Decoder) Delta() *events.Watch[int16] {
	return d.delta
}

// Count is the broadcast cell carrying the clamped cumulative count.
func (d *Decoder) Count() *events.Watch[int16] {
	return d.count
}

// Run polls until the context is cancelled.
func (d *Decoder) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.poll()
		}
	}
}

func (d *Decoder) poll() {
	// A pending hardware condition must be cleared before the count
	// can be trusted again.
	if f, ok := d.counter.(InterruptFlag); ok && f.Pending() {
		f.Ack()
	}

	current := d.counter.Count()
	if current == d.last {
		return
	}

	delta := current - d.last // wrapping difference of the 16-bit count
	d.last = current
	d.delta.Send(delta)
	debug.Log("encoder", "delta %d (raw %d)", delta, current)

	total := clampAdd(d.total, delta, CountMin, CountMax)
	if total == d.total {
		return
	}
	d.total = total
	d.count.Send(total)
}

// clampAdd adds delta to value and clamps the result to [lo, hi]. The
// arithmetic saturates instead of wrapping.
func clampAdd(value, delta, lo, hi int16) int16 {
	sum := int32(value) + int32(delta)
	if sum < int32(lo) {
		return lo
	}
	if sum > int32(hi) {
		return hi
	}
	return int16(sum)
}
