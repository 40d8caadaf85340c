package transport

import "bytes"

// identityRequest is the universal device-inquiry request. See the
// DEVICE INQUIRY section of the MIDI 1.0 Detailed Specification.
var identityRequest = []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}

// Identity holds the fields of the inquiry reply.
type Identity struct {
	Manufacturer byte
	Family       [2]byte
	Model        [2]byte
	Revision     [4]byte
}

// DefaultIdentity matches the shipped device firmware.
var DefaultIdentity = Identity{
	Manufacturer: 0x01,
	Family:       [2]byte{0x02, 0x03},
	Model:        [2]byte{0x04, 0x05},
	Revision:     [4]byte{0x00, 0x00, 0x00, 0x00},
}

// HandleSysEx inspects one complete inbound SysEx message and returns
// the reply to send, or nil. The device answers exactly one pattern:
// the identity request.
func (id Identity) HandleSysEx(msg []byte) []byte {
	if !bytes.Equal(msg, identityRequest) {
		return nil
	}
	return id.Reply()
}

// Reply renders the 15-byte identity reply.
func (id Identity) Reply() []byte {
	r := make([]byte, 0, 15)
	r = append(r, 0xF0, 0x7E, 0x7F, 0x06, 0x02)
	r = append(r, id.Manufacturer)
	r = append(r, id.Family[:]...)
	r = append(r, id.Model[:]...)
	r = append(r, id.Revision[:]...)
	return append(r, 0xF7)
}
