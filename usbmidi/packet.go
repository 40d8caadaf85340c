// Package usbmidi implements the USB MIDI class event packet framing:
// fixed 4-byte packets whose header byte carries the virtual cable
// number and a code index describing the 1-3 payload bytes that follow.
package usbmidi

import (
	"errors"
	"fmt"
)

// Status bytes delimiting a System Exclusive payload stream.
const (
	SysExStart byte = 0xF0
	SysExEnd   byte = 0xF7
)

// Code index numbers (low nibble of the packet header).
const (
	CINSysExContinue    uint8 = 0x4 // SysEx starts or continues, 3 bytes
	CINSysExEnd1        uint8 = 0x5 // SysEx ends with 1 byte
	CINSysExEnd2        uint8 = 0x6 // SysEx ends with 2 bytes
	CINSysExEnd3        uint8 = 0x7 // SysEx ends with 3 bytes
	CINNoteOff          uint8 = 0x8
	CINNoteOn           uint8 = 0x9
	CINPolyKeyPress     uint8 = 0xA
	CINControlChange    uint8 = 0xB
	CINProgramChange    uint8 = 0xC
	CINChannelPressure  uint8 = 0xD
	CINPitchBend        uint8 = 0xE
	CINSingleByte       uint8 = 0xF
)

// payloadSize is the number of meaningful payload bytes per code index.
// Zero marks reserved/unhandled code indexes.
var payloadSize = [16]int{
	CINSysExContinue:   3,
	CINSysExEnd1:       1,
	CINSysExEnd2:       2,
	CINSysExEnd3:       3,
	CINNoteOff:         3,
	CINNoteOn:          3,
	CINPolyKeyPress:    3,
	CINControlChange:   3,
	CINProgramChange:   2,
	CINChannelPressure: 2,
	CINPitchBend:       3,
	CINSingleByte:      1,
}

var ErrInvalidPayload = errors.New("usbmidi: payload does not form a valid event packet")

// Packet is one USB MIDI event packet on the wire.
type Packet [4]byte

func (p Packet) Cable() uint8 {
	return p[0] >> 4
}

func (p Packet) CIN() uint8 {
	return p[0] & 0x0F
}

// PayloadBytes returns the meaningful payload bytes, 1 to 3 of them
// depending on the code index. Nil for reserved code indexes.
func (p Packet) PayloadBytes() []byte {
	n := payloadSize[p.CIN()]
	if n == 0 {
		return nil
	}
	return p[1 : 1+n]
}

// IsSysEx reports whether the packet carries part of a SysEx message.
func (p Packet) IsSysEx() bool {
	cin := p.CIN()
	return cin >= CINSysExContinue && cin <= CINSysExEnd3
}

// IsSysExStart reports whether the packet opens a new SysEx message.
func (p Packet) IsSysExStart() bool {
	return p.CIN() == CINSysExContinue && p[1] == SysExStart
}

// IsSysExEnd reports whether the packet closes the current SysEx
// message.
func (p Packet) IsSysExEnd() bool {
	cin := p.CIN()
	return cin >= CINSysExEnd1 && cin <= CINSysExEnd3
}

func (p Packet) String() string {
	return fmt.Sprintf("cable %d cin %X % X", p.Cable(), p.CIN(), p.PayloadBytes())
}

// FromPayload frames 1-3 payload bytes into an event packet, deriving
// the code index from the content: a chunk terminated by 0xF7 becomes a
// SysEx-end packet, a chunk opened by 0xF0 or carrying runningless data
// bytes continues a SysEx stream, and a complete channel message maps
// to its status-derived code index.
func FromPayload(cable uint8, payload []byte) (Packet, error) {
	if len(payload) == 0 || len(payload) > 3 {
		return Packet{}, ErrInvalidPayload
	}

	var cin uint8
	last := payload[len(payload)-1]
	first := payload[0]
	switch {
	case last == SysExEnd:
		cin = CINSysExEnd1 + uint8(len(payload)-1)
	case first == SysExStart, first < 0x80:
		// Start or middle of a SysEx stream; must fill the packet.
		if len(payload) != 3 {
			return Packet{}, ErrInvalidPayload
		}
		cin = CINSysExContinue
	case first >= 0x80 && first < 0xF0:
		cin = first >> 4
		if payloadSize[cin] != len(payload) {
			return Packet{}, ErrInvalidPayload
		}
	default:
		return Packet{}, ErrInvalidPayload
	}

	var p Packet
	p[0] = cable<<4 | cin
	copy(p[1:], payload)
	return p, nil
}

// PacketReader iterates the event packets contained in one received
// transfer. Transfers are a whole multiple of 4 bytes; trailing
// all-zero packets (an unused code index) are padding and are skipped.
type PacketReader struct {
	buf []byte
}

func NewPacketReader(buf []byte) *PacketReader {
	return &PacketReader{buf: buf}
}

// Next returns the next non-empty packet in the transfer.
func (r *PacketReader) Next() (Packet, bool) {
	for len(r.buf) >= 4 {
		var p Packet
		copy(p[:], r.buf[:4])
		r.buf = r.buf[4:]
		if payloadSize[p.CIN()] == 0 {
			continue
		}
		return p, true
	}
	return Packet{}, false
}
