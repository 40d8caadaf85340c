// staasident probes a MIDI port with the universal device-inquiry
// request and prints the decoded identity reply.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

func main() {
	var (
		portName = flag.String("port", "", "MIDI port name substring (required)")
		timeout  = flag.Duration("timeout", 2*time.Second, "how long to wait for the reply")
		list     = flag.Bool("list", false, "list available ports and exit")
	)
	flag.Parse()
	defer gomidi.CloseDriver()

	if *list {
		listPorts()
		return
	}
	if *portName == "" {
		flag.Usage()
		os.Exit(2)
	}

	in := findIn(*portName)
	out := findOut(*portName)
	if in == nil || out == nil {
		fatalf("no MIDI port matching %q (try -list)", *portName)
	}

	replies := make(chan []byte, 1)
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var data []byte
		if msg.GetSysEx(&data) {
			select {
			case replies <- data:
			default:
			}
		}
	}, gomidi.UseSysEx())
	if err != nil {
		fatalf("open input: %v", err)
	}
	defer stop()

	send, err := gomidi.SendTo(out)
	if err != nil {
		fatalf("open output: %v", err)
	}

	// Universal device inquiry, addressed to all devices.
	if err := send(gomidi.SysEx([]byte{0x7E, 0x7F, 0x06, 0x01})); err != nil {
		fatalf("send inquiry: %v", err)
	}

	select {
	case data := <-replies:
		printIdentity(data)
	case <-time.After(*timeout):
		fatalf("no identity reply within %v", *timeout)
	}
}

// printIdentity decodes the inner bytes of an identity reply, i.e. the
// SysEx payload without its F0/F7 framing.
func printIdentity(data []byte) {
	if len(data) != 13 || data[0] != 0x7E || data[2] != 0x06 || data[3] != 0x02 {
		fatalf("unexpected sysex reply: % X", data)
	}
	fmt.Printf("manufacturer: %#02x\n", data[4])
	fmt.Printf("family:       %#02x %#02x\n", data[5], data[6])
	fmt.Printf("model:        %#02x %#02x\n", data[7], data[8])
	fmt.Printf("revision:     %#02x %#02x %#02x %#02x\n", data[9], data[10], data[11], data[12])
}

func findIn(name string) drivers.In {
	for _, p := range gomidi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(name)) {
			return p
		}
	}
	return nil
}

func findOut(name string) drivers.Out {
	for _, p := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(name)) {
			return p
		}
	}
	return nil
}

func listPorts() {
	fmt.Println("inputs:")
	for _, p := range gomidi.GetInPorts() {
		fmt.Printf("  %s\n", p)
	}
	fmt.Println("outputs:")
	for _, p := range gomidi.GetOutPorts() {
		fmt.Printf("  %s\n", p)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "staasident: "+format+"\n", args...)
	os.Exit(1)
}
