package page

import "sync/atomic"

// Counting records how often a wrapped provider is called.
type Counting struct {
	inner Provider

	acquires atomic.Int64
	releases atomic.Int64
	failures atomic.Int64
}

// NewCounting wraps inner.
func NewCounting(inner Provider) *Counting {
	return &Counting{inner: inner}
}

// PageSize implements Provider.
func (c *Counting) PageSize() int { return c.inner.PageSize() }

// Acquire implements Provider.
func (c *Counting) Acquire(order int) ([]byte, error) {
	extent, err := c.inner.Acquire(order)
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}
	c.acquires.Add(1)
	return extent, nil
}

// Release implements Provider.
func (c *Counting) Release(extent []byte) error {
	c.releases.Add(1)
	return c.inner.Release(extent)
}

// Acquires returns the number of successful Acquire calls.
func (c *Counting) Acquires() int64 { return c.acquires.Load() }

// Releases returns the number of Release calls.
func (c *Counting) Releases() int64 { return c.releases.Load() }

// Failures returns the number of failed Acquire calls.
func (c *Counting) Failures() int64 { return c.failures.Load() }
