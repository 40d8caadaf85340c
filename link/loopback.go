// Package link provides transport.Link implementations: an in-memory
// loopback for the simulator and tests, a bridge onto real MIDI ports,
// and a raw serial carrier.
package link

import (
	"sync"

	"github.com/valivia/staas/transport"
	"github.com/valivia/staas/usbmidi"
)

// Loopback is an in-memory Link. The "host" side injects transfers and
// collects sent packets; the device side sees a normal link. It can
// simulate a congested host by answering the next N sends with ErrBusy.
type Loopback struct {
	mu       sync.Mutex
	inbound  [][]byte
	sent     []usbmidi.Packet
	busyLeft int
}

func NewLoopback() *Loopback {
	return &Loopback{}
}

// InjectTransfer queues one received transfer for the device to read.
func (l *Loopback) InjectTransfer(buf []byte) {
	l.mu.Lock()
	l.inbound = append(l.inbound, append([]byte(nil), buf...))
	l.mu.Unlock()
}

// InjectPackets frames packets into a single transfer and injects it.
func (l *Loopback) InjectPackets(pkts ...usbmidi.Packet) {
	buf := make([]byte, 0, len(pkts)*4)
	for _, p := range pkts {
		buf = append(buf, p[:]...)
	}
	l.InjectTransfer(buf)
}

// SetBusy makes the next n SendPacket calls fail with ErrBusy.
func (l *Loopback) SetBusy(n int) {
	l.mu.Lock()
	l.busyLeft = n
	l.mu.Unlock()
}

// Sent returns and clears the packets transmitted so far.
func (l *Loopback) Sent() []usbmidi.Packet {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.sent
	l.sent = nil
	return out
}

func (l *Loopback) Poll() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inbound) > 0
}

func (l *Loopback) Read(buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.inbound) == 0 {
		return 0, nil
	}
	t := l.inbound[0]
	l.inbound = l.inbound[1:]
	return copy(buf, t), nil
}

func (l *Loopback) SendPacket(p usbmidi.Packet) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busyLeft > 0 {
		l.busyLeft--
		return transport.ErrBusy
	}
	l.sent = append(l.sent, p)
	return nil
}
