package usbmidi

import "fmt"

// Channel voice status bytes (channel bits masked off).
const (
	NoteOff         uint8 = 0x80
	NoteOn          uint8 = 0x90
	PolyKeyPress    uint8 = 0xA0
	CC              uint8 = 0xB0
	ProgramChange   uint8 = 0xC0
	ChannelPressure uint8 = 0xD0
	PitchBend       uint8 = 0xE0
)

// Message is a decoded channel voice message.
type Message struct {
	Type    uint8 // status with channel bits cleared
	Channel uint8 // 0-15
	Data1   uint8
	Data2   uint8 // unused for 2-byte messages
}

// ControlChange renders a control change to its 3 wire bytes.
func ControlChange(channel, control, value uint8) []byte {
	return []byte{CC | channel&0x0F, control & 0x7F, value & 0x7F}
}

// ParseMessage decodes the payload of a non-SysEx event packet.
func ParseMessage(payload []byte) (Message, error) {
	if len(payload) < 2 {
		return Message{}, fmt.Errorf("usbmidi: message too short (%d bytes)", len(payload))
	}
	status := payload[0]
	if status < 0x80 || status >= 0xF0 {
		return Message{}, fmt.Errorf("usbmidi: not a channel voice status byte: %#02x", status)
	}
	m := Message{
		Type:    status & 0xF0,
		Channel: status & 0x0F,
		Data1:   payload[1],
	}
	switch m.Type {
	case ProgramChange, ChannelPressure:
		if len(payload) != 2 {
			return Message{}, fmt.Errorf("usbmidi: %#02x expects 2 bytes, got %d", status, len(payload))
		}
	default:
		if len(payload) != 3 {
			return Message{}, fmt.Errorf("usbmidi: %#02x expects 3 bytes, got %d", status, len(payload))
		}
		m.Data2 = payload[2]
	}
	return m, nil
}

func (m Message) String() string {
	name := "unknown"
	switch m.Type {
	case NoteOff:
		name = "note off"
	case NoteOn:
		name = "note on"
	case PolyKeyPress:
		name = "poly pressure"
	case CC:
		name = "cc"
	case ProgramChange:
		name = "program"
	case ChannelPressure:
		name = "pressure"
	case PitchBend:
		name = "pitch bend"
	}
	return fmt.Sprintf("%s ch%d %d %d", name, m.Channel+1, m.Data1, m.Data2)
}
