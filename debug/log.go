// Package debug is an opt-in category-tagged file logger. The device
// loops log through it so that dropped events, decode failures and
// transport errors leave a trace without ever blocking or failing the
// loop that reported them.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const dirName = "staas"

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool
	every   = make(map[string]int)
)

// Enable starts logging to ~/.config/staas/debug.log, truncating any
// previous log.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true
	write("debug", "=== logging started ===")
	return nil
}

// Disable stops logging and closes the file.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes one line tagged with a category. A no-op unless Enable
// was called.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	write(category, format, args...)
}

// LogEvery writes only every n-th call with the same category+format,
// for high-frequency events like outbound drains.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	key := category + format
	every[key]++
	if every[key]%n != 0 {
		return
	}
	write(category, format+" (count=%d)", append(args, every[key])...)
}

// write assumes mu is held.
func write(category, format string, args ...any) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-10s %s\n", ts, category, fmt.Sprintf(format, args...))
	file.Sync()
}
