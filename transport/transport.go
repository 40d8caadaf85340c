package transport

import (
	"context"
	"errors"
	"time"

	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/events"
	"github.com/valivia/staas/param"
	"github.com/valivia/staas/usbmidi"
)

// DefaultYield is the pause between loop iterations.
const DefaultYield = 50 * time.Millisecond

// Transport runs the USB MIDI loop: each iteration polls the link,
// decodes whatever arrived, then drains the outbound queue. Delivery
// of routine outbound events is best effort: a busy link drops the
// event in hand, a future adjustment re-sends the current value.
type Transport struct {
	link  Link
	out   *events.Queue[param.Event]
	asm   *Assembly
	id    Identity
	yield time.Duration
	cable uint8

	readBuf [64]byte
}

func New(link Link, out *events.Queue[param.Event], id Identity, yield time.Duration) *Transport {
	if yield <= 0 {
		yield = DefaultYield
	}
	return &Transport{
		link:  link,
		out:   out,
		asm:   NewAssembly(SysExBufferSize),
		id:    id,
		yield: yield,
	}
}

// Run loops until the context is cancelled.
func (t *Transport) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.yield)
	defer ticker.Stop()

	for {
		t.cycle()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// cycle is one loop iteration: inbound first, then outbound.
func (t *Transport) cycle() {
	t.receive()
	t.drain()
}

// receive decodes one inbound transfer, if any.
func (t *Transport) receive() {
	if !t.link.Poll() {
		return
	}
	n, err := t.link.Read(t.readBuf[:])
	if err != nil {
		debug.Log("usb", "read error: %v", err)
		return
	}
	if n == 0 {
		return
	}

	rd := usbmidi.NewPacketReader(t.readBuf[:n])
	for {
		pkt, ok := rd.Next()
		if !ok {
			return
		}
		if !pkt.IsSysEx() {
			// Regular message; the device relays control only, so
			// inbound channel traffic is logged and dropped.
			msg, err := usbmidi.ParseMessage(pkt.PayloadBytes())
			if err != nil {
				debug.Log("usb", "malformed packet on cable %d: %v", pkt.Cable(), err)
				continue
			}
			debug.Log("usb", "in: %s", msg)
			continue
		}

		if pkt.IsSysExStart() {
			t.asm.Reset()
		}
		if err := t.asm.Append(pkt.PayloadBytes()); err != nil {
			// Message too large: abandon it and everything after it
			// in this transfer.
			debug.Log("usb", "sysex overflow, message discarded")
			return
		}
		if pkt.IsSysExEnd() {
			msg := t.asm.Bytes()
			debug.Log("usb", "sysex in: % X", msg)
			if reply := t.id.HandleSysEx(msg); reply != nil {
				t.sendReply(reply)
			}
			t.asm.Reset()
		}
	}
}

// sendReply fragments a SysEx reply into 3-byte payload chunks and
// transmits them in order. A busy link is retried until it clears;
// any other error abandons the rest of the reply.
func (t *Transport) sendReply(reply []byte) {
	for off := 0; off < len(reply); off += 3 {
		end := off + 3
		if end > len(reply) {
			end = len(reply)
		}
		pkt, err := usbmidi.FromPayload(t.cable, reply[off:end])
		if err != nil {
			debug.Log("usb", "reply chunk % X: %v", reply[off:end], err)
			return
		}
		for {
			err := t.link.SendPacket(pkt)
			if err == nil {
				break
			}
			if !errors.Is(err, ErrBusy) {
				debug.Log("usb", "reply send error: %v", err)
				return
			}
			// Host has not drained yet; keep trying.
		}
	}
	debug.Log("usb", "sysex reply sent (%d bytes)", len(reply))
}

// drain pops outbound events and transmits them until the queue is
// empty or the link reports busy. The event that hit the busy link is
// dropped, not requeued.
func (t *Transport) drain() {
	for {
		ev, ok := t.out.TryPop()
		if !ok {
			return
		}
		pkt, err := usbmidi.FromPayload(t.cable, usbmidi.ControlChange(ev.Channel, ev.Control, ev.Value))
		if err != nil {
			debug.Log("usb", "render cc %d=%d: %v", ev.Control, ev.Value, err)
			continue
		}
		switch err := t.link.SendPacket(pkt); {
		case err == nil:
			debug.LogEvery(16, "usb", "out: cc ch%d %d=%d", ev.Channel+1, ev.Control, ev.Value)
		case errors.Is(err, ErrBusy):
			debug.Log("usb", "link busy, dropping cc %d=%d", ev.Control, ev.Value)
			return
		default:
			debug.Log("usb", "send error: %v", err)
		}
	}
}
