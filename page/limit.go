package page

import (
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Limit caps the total bytes a wrapped provider may have outstanding.
// Acquire never blocks: once the budget is spent it fails with ErrExhausted
// until extents are released.
type Limit struct {
	inner  Provider
	budget int64
	sem    *semaphore.Weighted
}

// NewLimit wraps inner with a budget of maxBytes outstanding bytes.
func NewLimit(inner Provider, maxBytes int64) *Limit {
	return &Limit{
		inner:  inner,
		budget: maxBytes,
		sem:    semaphore.NewWeighted(maxBytes),
	}
}

// PageSize implements Provider.
func (l *Limit) PageSize() int { return l.inner.PageSize() }

// Budget returns the configured byte budget.
func (l *Limit) Budget() int64 { return l.budget }

// Acquire implements Provider.
func (l *Limit) Acquire(order int) ([]byte, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	size := int64(l.inner.PageSize()) << order
	if !l.sem.TryAcquire(size) {
		return nil, fmt.Errorf("%w: budget of %d bytes spent (need %d)", ErrExhausted, l.budget, size)
	}
	extent, err := l.inner.Acquire(order)
	if err != nil {
		l.sem.Release(size)
		return nil, err
	}
	return extent, nil
}

// Release implements Provider. The budget is only credited when the wrapped
// provider accepts the extent.
func (l *Limit) Release(extent []byte) error {
	if err := l.inner.Release(extent); err != nil {
		return err
	}
	l.sem.Release(int64(len(extent)))
	return nil
}
