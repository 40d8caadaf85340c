// Package config loads and saves the controller configuration: the
// parameter table, identity reply fields, timing values and the link
// to run on.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LinkKind selects the transport implementation.
type LinkKind string

const (
	LinkLoopback LinkKind = "loopback"
	LinkPort     LinkKind = "port"
	LinkSerial   LinkKind = "serial"
)

// ParameterConfig defines one controllable parameter.
type ParameterConfig struct {
	Name    string `json:"name"`
	Channel uint8  `json:"channel"` // 1-16 as written by humans
	Control uint8  `json:"control"`
	Min     uint8  `json:"min"`
	Max     uint8  `json:"max"`
	Value   uint8  `json:"value"` // initial level

	// Display mapping: the raw range is shown as [DisplayMin,
	// DisplayMax] followed by Unit, e.g. 0-100 shown as "0-1000 ms".
	Unit       string `json:"unit,omitempty"`
	DisplayMin uint32 `json:"displayMin,omitempty"`
	DisplayMax uint32 `json:"displayMax,omitempty"`
}

// IdentityConfig holds the device-inquiry reply fields.
type IdentityConfig struct {
	Manufacturer byte    `json:"manufacturer"`
	Family       [2]byte `json:"family"`
	Model        [2]byte `json:"model"`
	Revision     [4]byte `json:"revision"`
}

// LinkConfig selects and parameterizes the transport link.
type LinkConfig struct {
	Kind   LinkKind `json:"kind"`
	Port   string   `json:"port,omitempty"`   // MIDI port name substring
	Device string   `json:"device,omitempty"` // serial device path
	Baud   int      `json:"baud,omitempty"`
}

// TimingConfig holds the loop intervals in milliseconds.
type TimingConfig struct {
	PollMs     int `json:"pollMs,omitempty"`     // encoder sampling period
	YieldMs    int `json:"yieldMs,omitempty"`    // transport loop pause
	DebounceMs int `json:"debounceMs,omitempty"` // button re-trigger interval
}

// Config is the main configuration structure.
type Config struct {
	Parameters []ParameterConfig `json:"parameters"`
	Identity   IdentityConfig    `json:"identity"`
	Link       LinkConfig        `json:"link"`
	Timing     TimingConfig      `json:"timing"`
}

// DefaultConfig reproduces the shipped firmware's parameter table.
func DefaultConfig() *Config {
	return &Config{
		Parameters: []ParameterConfig{
			{
				Name: "Delay", Channel: 1, Control: 20,
				Min: 0, Max: 100, Value: 15,
				Unit: "ms", DisplayMin: 0, DisplayMax: 1000,
			},
			{
				Name: "Feedback", Channel: 1, Control: 21,
				Min: 0, Max: 100, Value: 50,
				Unit: "%", DisplayMin: 0, DisplayMax: 100,
			},
		},
		Identity: IdentityConfig{
			Manufacturer: 0x01,
			Family:       [2]byte{0x02, 0x03},
			Model:        [2]byte{0x04, 0x05},
		},
		Link: LinkConfig{Kind: LinkLoopback, Baud: 115200},
		Timing: TimingConfig{
			PollMs:     100,
			YieldMs:    50,
			DebounceMs: 200,
		},
	}
}

// Validate reports the first problem in the config, if any.
func (c *Config) Validate() error {
	if len(c.Parameters) == 0 {
		return fmt.Errorf("config: no parameters defined")
	}
	for _, p := range c.Parameters {
		if p.Channel < 1 || p.Channel > 16 {
			return fmt.Errorf("config: %q: channel %d outside 1-16", p.Name, p.Channel)
		}
		if p.Control > 127 {
			return fmt.Errorf("config: %q: control %d outside 0-127", p.Name, p.Control)
		}
		if p.Min > p.Max || p.Max > 127 {
			return fmt.Errorf("config: %q: bad bounds [%d, %d]", p.Name, p.Min, p.Max)
		}
		if p.Value < p.Min || p.Value > p.Max {
			return fmt.Errorf("config: %q: initial value %d outside [%d, %d]", p.Name, p.Value, p.Min, p.Max)
		}
	}
	switch c.Link.Kind {
	case LinkLoopback, LinkPort, LinkSerial:
	default:
		return fmt.Errorf("config: unknown link kind %q", c.Link.Kind)
	}
	return nil
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "staas"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config from an explicit path, falling back to
// defaults when the file does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
