package arena

import (
	"log/slog"

	"github.com/joshuapare/allockit/internal/layout"
	"github.com/joshuapare/allockit/internal/logger"
)

// DirtyTracker receives the byte range of every in-band write the arena
// makes to its buffer. *dirty.Tracker implements it.
type DirtyTracker interface {
	Add(off, length int)
}

type config struct {
	minFree int
	debug   bool
	dt      DirtyTracker
	logger  *slog.Logger
}

func defaultConfig() config {
	return config{minFree: layout.DefaultMinFreePayload}
}

// Option configures an Arena.
type Option func(*config)

// WithMinFreePayload sets the smallest payload a split may leave behind in
// the free remainder. A free block whose surplus would be smaller is handed
// out whole. n is raised to the link size and rounded up to 8.
func WithMinFreePayload(n int) Option {
	return func(c *config) {
		c.minFree = layout.Align8(max(n, layout.LinkSize))
	}
}

// WithDebugChecks records every live payload offset so Free can reject refs
// that point into the middle of a block.
func WithDebugChecks() Option {
	return func(c *config) {
		c.debug = true
	}
}

// WithDirtyTracker reports every tag and link write to dt.
func WithDirtyTracker(dt DirtyTracker) Option {
	return func(c *config) {
		c.dt = dt
	}
}

// WithLogger routes arena events to l instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logger.L
}
