package transport

import "errors"

// SysExBufferSize bounds how large a reassembled SysEx message may
// grow. Messages exceeding it are discarded.
const SysExBufferSize = 64

// ErrOverflow reports that an inbound SysEx message outgrew the
// reassembly buffer before its end marker arrived.
var ErrOverflow = errors.New("transport: sysex buffer overflow")

// Assembly accumulates SysEx payload bytes across consecutive event
// packets between the start and end markers.
type Assembly struct {
	buf []byte
	cap int
}

func NewAssembly(capacity int) *Assembly {
	if capacity <= 0 {
		capacity = SysExBufferSize
	}
	return &Assembly{buf: make([]byte, 0, capacity), cap: capacity}
}

// Reset discards any partially assembled message.
func (a *Assembly) Reset() {
	a.buf = a.buf[:0]
}

// Append adds the payload of one packet. On overflow the buffer is
// cleared and ErrOverflow returned; the message in flight is lost.
func (a *Assembly) Append(payload []byte) error {
	if len(a.buf)+len(payload) > a.cap {
		a.Reset()
		return ErrOverflow
	}
	a.buf = append(a.buf, payload...)
	return nil
}

// Bytes is the message assembled so far, including the framing status
// bytes. Valid until the next Reset or Append.
func (a *Assembly) Bytes() []byte {
	return a.buf
}

func (a *Assembly) Len() int {
	return len(a.buf)
}
