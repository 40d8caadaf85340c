// Package encoder turns the raw pulse count of a quadrature encoder
// into a clamped delta signal and a bounded cumulative count signal.
package encoder

import (
	"sync"
	"time"
)

// Counter is a hardware pulse accumulator: it increments and decrements
// on quadrature edges and exposes the running signed count.
type Counter interface {
	Count() int16
}

// InterruptFlag is implemented by counters whose hardware raises an
// interrupt condition (limit reached, glitch filter trip). The decoder
// acknowledges a pending flag before each poll; acknowledging is the
// only action ever taken from interrupt context.
type InterruptFlag interface {
	Pending() bool
	Ack()
}

// DefaultFilter is the glitch filter window applied to quadrature
// edges, mirroring the hardware debounce of the pulse counter
// peripheral.
const DefaultFilter = 10 * time.Microsecond

// PulseCounter is a software pulse accumulator driven by simulated
// quadrature edges. The lock lets the periodic poll and an
// asynchronous interrupt callback share it safely.
type PulseCounter struct {
	mu      sync.Mutex
	count   int16
	pending bool
	filter  time.Duration
	lastAdd time.Time
}

func NewPulseCounter() *PulseCounter {
	return &PulseCounter{filter: DefaultFilter}
}

// Add accumulates steps quadrature steps. Edges arriving within the
// glitch filter window of the previous edge are ignored. The count
// wraps on overflow, raising the interrupt flag like the hardware unit
// crossing its limit.
func (c *PulseCounter) Add(steps int16) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.filter > 0 && now.Sub(c.lastAdd) < c.filter {
		return
	}
	c.lastAdd = now

	next := c.count + steps // wraps, mirroring the 16-bit hardware register
	if (steps > 0 && next < c.count) || (steps < 0 && next > c.count) {
		c.pending = true
	}
	c.count = next
}

func (c *PulseCounter) Count() int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *PulseCounter) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Ack clears the pending interrupt condition. Safe to call from the
// interrupt callback; it performs no other work.
func (c *PulseCounter) Ack() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}
