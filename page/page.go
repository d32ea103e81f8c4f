// Package page supplies the backing extents that slab caches carve into
// objects. An extent is PageSize() << order bytes and is exclusive to the
// caller until it is released.
//
// Providers:
//
//   - Heap: Go heap slices, for tests and portable use
//   - Mmap: anonymous private mappings outside the Go heap
//   - Limit: wraps another provider and enforces a byte budget
//   - Counting: wraps another provider and counts calls
//
// Heap and Mmap are safe for concurrent use. Limit and Counting are as safe
// as the provider they wrap.
package page

import (
	"errors"
	"fmt"

	"github.com/joshuapare/allockit/internal/layout"
)

// MaxOrder bounds the page-count exponent accepted by the bundled providers.
const MaxOrder = 20

var (
	// ErrExhausted indicates the provider cannot supply another extent.
	ErrExhausted = errors.New("page: provider exhausted")

	// ErrBadOrder indicates an order outside [0, MaxOrder].
	ErrBadOrder = errors.New("page: order out of range")

	// ErrUnknownExtent indicates Release was handed an extent this provider
	// did not hand out, or one it already took back.
	ErrUnknownExtent = errors.New("page: unknown extent")
)

// Provider hands out and takes back power-of-two page multiples.
type Provider interface {
	// PageSize returns the size of one page in bytes.
	PageSize() int

	// Acquire returns an extent of exactly PageSize() << order bytes.
	Acquire(order int) ([]byte, error)

	// Release returns an extent obtained from Acquire.
	Release(extent []byte) error
}

// ExtentSize returns the byte size of an extent of the given order.
func ExtentSize(p Provider, order int) int {
	return p.PageSize() << order
}

func checkOrder(order int) error {
	if order < 0 || order > MaxOrder {
		return fmt.Errorf("%w: %d", ErrBadOrder, order)
	}
	return nil
}

// key identifies an extent by its first byte.
func key(extent []byte) (*byte, bool) {
	if len(extent) == 0 {
		return nil, false
	}
	return &extent[0], true
}

func pageSizeOrDefault(n int) int {
	if n <= 0 {
		return layout.DefaultPageSize
	}
	return n
}
