package main

import (
	"os"
	"strings"
	"sync"
)

// sessionCapabilities tracks what the outer terminal (the one yatdemo itself
// is running in) can do, the same fields the teacher's TerminalCapabilities
// tracked (terminal_caps.go) but trimmed to what this demo actually reads:
// color depth and whether stdout is a real terminal at all. Mutex-guarded
// the way the teacher guards shared capability state across goroutines,
// since here it is read by the render loop and written once at startup.
type sessionCapabilities struct {
	mu sync.RWMutex

	termType   string
	colorDepth int
	isTerminal bool
}

func detectCapabilities() *sessionCapabilities {
	c := &sessionCapabilities{
		termType:   os.Getenv("TERM"),
		colorDepth: 16,
	}
	if c.termType == "" {
		c.termType = "xterm-256color"
	}
	if strings.Contains(c.termType, "256color") {
		c.colorDepth = 256
	}
	if os.Getenv("COLORTERM") == "truecolor" {
		c.colorDepth = 1 << 24
	}
	if fi, err := os.Stdout.Stat(); err == nil {
		c.isTerminal = fi.Mode()&os.ModeCharDevice != 0
	}
	return c
}

func (c *sessionCapabilities) ColorDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.colorDepth
}

func (c *sessionCapabilities) IsTerminal() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isTerminal
}
