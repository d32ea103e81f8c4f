package slab

import (
	"log/slog"

	"github.com/joshuapare/allockit/internal/logger"
)

// DefaultOrder is the slab order used when none is configured: 32 pages.
const DefaultOrder = 5

type config struct {
	order  int
	tag    uint16
	debug  bool
	logger *slog.Logger
}

func defaultConfig() config {
	return config{order: DefaultOrder}
}

// Option configures a Cache.
type Option func(*config)

// WithOrder sets the page-count exponent requested for each slab. If a slab
// of this order cannot hold a single object, Setup raises the order until
// one fits.
func WithOrder(order int) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithTag stamps every ref handed out by the cache with tag, so refs from
// different caches can be told apart. Set assigns tags itself.
func WithTag(tag uint16) Option {
	return func(c *config) {
		c.tag = tag
	}
}

// WithDebugChecks tracks every live object in a bitmap so Verify can match
// it against the slab counters and LiveRefs can report leaks.
func WithDebugChecks() Option {
	return func(c *config) {
		c.debug = true
	}
}

// WithLogger routes cache events to l instead of the package logger.
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
