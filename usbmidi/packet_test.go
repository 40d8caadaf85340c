package usbmidi

import (
	"bytes"
	"testing"
)

func TestFromPayload(t *testing.T) {
	for _, c := range []struct {
		name    string
		cable   uint8
		payload []byte
		want    Packet
		wantErr bool
	}{{
		name:    "cc",
		cable:   0,
		payload: []byte{0xB0, 20, 64},
		want:    Packet{0x0B, 0xB0, 20, 64},
	}, {
		name:    "cc on cable 2",
		cable:   2,
		payload: []byte{0xB1, 21, 127},
		want:    Packet{0x2B, 0xB1, 21, 127},
	}, {
		name:    "program change",
		cable:   0,
		payload: []byte{0xC5, 10},
		want:    Packet{0x0C, 0xC5, 10, 0},
	}, {
		name:    "sysex start",
		cable:   0,
		payload: []byte{0xF0, 0x7E, 0x7F},
		want:    Packet{0x04, 0xF0, 0x7E, 0x7F},
	}, {
		name:    "sysex continue",
		cable:   0,
		payload: []byte{0x06, 0x01, 0x02},
		want:    Packet{0x04, 0x06, 0x01, 0x02},
	}, {
		name:    "sysex end 3",
		cable:   0,
		payload: []byte{0x03, 0x04, 0xF7},
		want:    Packet{0x07, 0x03, 0x04, 0xF7},
	}, {
		name:    "sysex end 2",
		cable:   0,
		payload: []byte{0x04, 0xF7},
		want:    Packet{0x06, 0x04, 0xF7},
	}, {
		name:    "sysex end 1",
		cable:   0,
		payload: []byte{0xF7},
		want:    Packet{0x05, 0xF7, 0, 0},
	}, {
		name:    "empty",
		payload: nil,
		wantErr: true,
	}, {
		name:    "too long",
		payload: []byte{1, 2, 3, 4},
		wantErr: true,
	}, {
		name:    "short sysex middle",
		payload: []byte{0x01, 0x02},
		wantErr: true,
	}, {
		name:    "wrong length for status",
		payload: []byte{0xB0, 20},
		wantErr: true,
	}} {
		got, err := FromPayload(c.cable, c.payload)
		if c.wantErr {
			if err == nil {
				t.Errorf("%s: FromPayload(% X) = %v, want error", c.name, c.payload, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: FromPayload(% X): %v", c.name, c.payload, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: FromPayload(% X) = % X, want % X", c.name, c.payload, got, c.want)
		}
	}
}

func TestPacketClassification(t *testing.T) {
	for _, c := range []struct {
		p          Packet
		sysex      bool
		start, end bool
		payloadLen int
	}{
		{Packet{0x0B, 0xB0, 20, 95}, false, false, false, 3},
		{Packet{0x04, 0xF0, 0x7E, 0x7F}, true, true, false, 3},
		{Packet{0x04, 0x01, 0x02, 0x03}, true, false, false, 3},
		{Packet{0x05, 0xF7, 0, 0}, true, false, true, 1},
		{Packet{0x06, 0x01, 0xF7, 0}, true, false, true, 2},
		{Packet{0x07, 0x01, 0x02, 0xF7}, true, false, true, 3},
		{Packet{0x0C, 0xC0, 5, 0}, false, false, false, 2},
	} {
		if got := c.p.IsSysEx(); got != c.sysex {
			t.Errorf("%v IsSysEx = %v, want %v", c.p, got, c.sysex)
		}
		if got := c.p.IsSysExStart(); got != c.start {
			t.Errorf("%v IsSysExStart = %v, want %v", c.p, got, c.start)
		}
		if got := c.p.IsSysExEnd(); got != c.end {
			t.Errorf("%v IsSysExEnd = %v, want %v", c.p, got, c.end)
		}
		if got := len(c.p.PayloadBytes()); got != c.payloadLen {
			t.Errorf("%v PayloadBytes len = %d, want %d", c.p, got, c.payloadLen)
		}
	}
}

func TestPacketReader(t *testing.T) {
	transfer := []byte{
		0x0B, 0xB0, 20, 64, // cc
		0x00, 0x00, 0x00, 0x00, // padding, skipped
		0x04, 0xF0, 0x7E, 0x7F, // sysex start
		0x01, 0x02, // trailing fragment, ignored
	}
	rd := NewPacketReader(transfer)

	want := []Packet{
		{0x0B, 0xB0, 20, 64},
		{0x04, 0xF0, 0x7E, 0x7F},
	}
	for i, w := range want {
		got, ok := rd.Next()
		if !ok {
			t.Fatalf("packet %d missing", i)
		}
		if got != w {
			t.Errorf("packet %d = % X, want % X", i, got, w)
		}
	}
	if p, ok := rd.Next(); ok {
		t.Errorf("unexpected extra packet % X", p)
	}
}

func TestControlChangeBytes(t *testing.T) {
	got := ControlChange(0, 0, 95)
	if !bytes.Equal(got, []byte{0xB0, 0, 95}) {
		t.Errorf("ControlChange(0, 0, 95) = % X", got)
	}
	got = ControlChange(9, 200, 200)
	// Out-of-range control and value are masked to 7 bits.
	if !bytes.Equal(got, []byte{0xB9, 200 & 0x7F, 200 & 0x7F}) {
		t.Errorf("ControlChange(9, 200, 200) = % X", got)
	}
}

func TestParseMessage(t *testing.T) {
	for _, c := range []struct {
		payload []byte
		want    Message
		wantErr bool
	}{
		{[]byte{0xB0, 20, 64}, Message{Type: CC, Channel: 0, Data1: 20, Data2: 64}, false},
		{[]byte{0x91, 60, 100}, Message{Type: NoteOn, Channel: 1, Data1: 60, Data2: 100}, false},
		{[]byte{0xC2, 5}, Message{Type: ProgramChange, Channel: 2, Data1: 5}, false},
		{[]byte{0xB0}, Message{}, true},
		{[]byte{0x10, 20, 30}, Message{}, true},
		{[]byte{0xF0, 0x7E, 0x7F}, Message{}, true},
		{[]byte{0xC2, 5, 6}, Message{}, true},
	} {
		got, err := ParseMessage(c.payload)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseMessage(% X) err = %v, wantErr %v", c.payload, err, c.wantErr)
			continue
		}
		if !c.wantErr && got != c.want {
			t.Errorf("ParseMessage(% X) = %+v, want %+v", c.payload, got, c.want)
		}
	}
}
