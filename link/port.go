package link

import (
	"fmt"
	"strings"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver

	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/usbmidi"
)

// Port bridges the device loop onto a real pair of host MIDI ports:
// inbound messages are framed into USB MIDI event packets, outbound
// packets are unframed back into messages. It lets the runtime behave
// like the hardware device while running on a host.
type Port struct {
	id   string
	send func(gomidi.Message) error
	stop func()

	mu      sync.Mutex
	inbound [][]byte
	sysex   []byte // outbound sysex under reassembly
}

// OpenPort connects to the first in/out port pair whose name contains
// name (case-insensitive).
func OpenPort(name string) (*Port, error) {
	var in drivers.In
	for _, p := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(name)) {
			in = p
			break
		}
	}
	var out drivers.Out
	for _, p := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(name)) {
			out = p
			break
		}
	}
	if in == nil || out == nil {
		return nil, fmt.Errorf("link: no MIDI port matching %q", name)
	}

	p := &Port{id: in.String()}

	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("link: open output: %w", err)
	}
	p.send = send

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		p.enqueue(msg.Bytes())
	}, gomidi.UseSysEx())
	if err != nil {
		return nil, fmt.Errorf("link: open input: %w", err)
	}
	p.stop = stop

	debug.Log("link", "port open: %s", p.id)
	return p, nil
}

func (p *Port) ID() string {
	return p.id
}

// enqueue frames one inbound message into a transfer of event packets.
func (p *Port) enqueue(raw []byte) {
	var buf []byte
	for off := 0; off < len(raw); off += 3 {
		end := off + 3
		if end > len(raw) {
			end = len(raw)
		}
		pkt, err := usbmidi.FromPayload(0, raw[off:end])
		if err != nil {
			debug.Log("link", "inbound frame % X: %v", raw[off:end], err)
			return
		}
		buf = append(buf, pkt[:]...)
	}
	if len(buf) == 0 {
		return
	}
	p.mu.Lock()
	p.inbound = append(p.inbound, buf)
	p.mu.Unlock()
}

func (p *Port) Poll() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inbound) > 0
}

func (p *Port) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.inbound) == 0 {
		return 0, nil
	}
	t := p.inbound[0]
	p.inbound = p.inbound[1:]
	return copy(buf, t), nil
}

// SendPacket unframes the packet and sends it as a MIDI message. SysEx
// packets are collected until the end packet completes the message.
func (p *Port) SendPacket(pkt usbmidi.Packet) error {
	if !pkt.IsSysEx() {
		return p.send(gomidi.Message(append([]byte(nil), pkt.PayloadBytes()...)))
	}

	p.mu.Lock()
	if pkt.IsSysExStart() {
		p.sysex = p.sysex[:0]
	}
	p.sysex = append(p.sysex, pkt.PayloadBytes()...)
	done := pkt.IsSysExEnd()
	var msg []byte
	if done {
		msg = append([]byte(nil), p.sysex...)
		p.sysex = p.sysex[:0]
	}
	p.mu.Unlock()

	if !done {
		return nil
	}
	return p.send(gomidi.Message(msg))
}

func (p *Port) Close() error {
	if p.stop != nil {
		p.stop()
	}
	return nil
}
