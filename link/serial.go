package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/usbmidi"
)

// Serial carries raw 4-byte event packets over a serial device, for
// boards that expose their MIDI endpoint behind a USB-serial adapter.
type Serial struct {
	port serial.Port
	rest []byte // partial packet carried between reads
}

// OpenSerial opens the named device at the given baud rate. Reads are
// given a short timeout so the device loop's poll never stalls.
func OpenSerial(device string, baud int) (*Serial, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", device, err)
	}
	if err := p.SetReadTimeout(10 * time.Millisecond); err != nil {
		p.Close()
		return nil, fmt.Errorf("link: read timeout: %w", err)
	}
	debug.Log("link", "serial open: %s @%d", device, baud)
	return &Serial{port: p}, nil
}

// Poll always reports true; Read's timeout makes an idle line cheap.
func (s *Serial) Poll() bool {
	return true
}

// Read fills buf with as many whole packets as arrived. Bytes of a
// packet split across reads are carried over to the next call.
func (s *Serial) Read(buf []byte) (int, error) {
	raw := make([]byte, len(buf))
	n, err := s.port.Read(raw)
	if err != nil {
		return 0, err
	}
	if n == 0 && len(s.rest) == 0 {
		return 0, nil
	}

	data := append(s.rest, raw[:n]...)
	whole := len(data) - len(data)%4
	s.rest = append([]byte(nil), data[whole:]...)
	return copy(buf, data[:whole]), nil
}

func (s *Serial) SendPacket(p usbmidi.Packet) error {
	_, err := s.port.Write(p[:])
	return err
}

func (s *Serial) Close() error {
	return s.port.Close()
}
