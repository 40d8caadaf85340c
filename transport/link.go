// Package transport owns the USB MIDI link: it drains the outbound
// event queue onto the wire and reassembles inbound SysEx traffic,
// answering the standard device-inquiry request.
package transport

import (
	"errors"

	"github.com/valivia/staas/usbmidi"
)

// ErrBusy is returned by a Link when the host has not yet consumed the
// previous transmission. Routine outbound events are dropped on it;
// inquiry reply chunks are retried until it clears.
var ErrBusy = errors.New("transport: link busy")

// Link is the USB MIDI endpoint pair.
type Link interface {
	// Poll reports whether inbound data may be waiting.
	Poll() bool

	// Read copies one received transfer into buf and returns its
	// length. A transfer holds one or more 4-byte event packets.
	Read(buf []byte) (int, error)

	// SendPacket queues one event packet for the host. ErrBusy means
	// the transmit buffer is still occupied.
	SendPacket(p usbmidi.Packet) error
}
