package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/valivia/staas/button"
	"github.com/valivia/staas/config"
	"github.com/valivia/staas/debug"
	"github.com/valivia/staas/device"
	"github.com/valivia/staas/encoder"
	"github.com/valivia/staas/link"
	"github.com/valivia/staas/transport"
	"github.com/valivia/staas/tui"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (default ~/.config/staas/config.json)")
		linkKind   = flag.String("link", "", "link to run on: loopback, port or serial (overrides config)")
		portName   = flag.String("port", "", "MIDI port name substring for -link port")
		serialDev  = flag.String("serial", "", "serial device for -link serial")
		baud       = flag.Int("baud", 0, "baud rate for -link serial")
		debugLog   = flag.Bool("debug", false, "write a debug log to ~/.config/staas/debug.log")
	)
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if *linkKind != "" {
		cfg.Link.Kind = config.LinkKind(*linkKind)
	}
	if *portName != "" {
		cfg.Link.Port = *portName
	}
	if *serialDev != "" {
		cfg.Link.Device = *serialDev
	}
	if *baud > 0 {
		cfg.Link.Baud = *baud
	}

	lnk, linkName, err := openLink(cfg)
	if err != nil {
		fatal(err)
	}

	// The knob and button are simulated and driven from the TUI; the
	// MIDI side of the device is real.
	knob := encoder.NewPulseCounter()
	btn := button.NewSimLine()

	rt, err := device.New(cfg, lnk, knob, btn)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rt.Run(ctx)

	m := tui.NewModel(rt, knob, btn, linkName, cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func openLink(cfg *config.Config) (transport.Link, string, error) {
	switch cfg.Link.Kind {
	case config.LinkPort:
		p, err := link.OpenPort(cfg.Link.Port)
		if err != nil {
			return nil, "", err
		}
		return p, p.ID(), nil
	case config.LinkSerial:
		s, err := link.OpenSerial(cfg.Link.Device, cfg.Link.Baud)
		if err != nil {
			return nil, "", err
		}
		return s, cfg.Link.Device, nil
	default:
		return link.NewLoopback(), "loopback", nil
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "staas: %v\n", err)
	os.Exit(1)
}
