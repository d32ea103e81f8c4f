package page

import (
	"fmt"
	"sync"
)

// Heap serves extents from the Go heap.
type Heap struct {
	pageSize int

	mu    sync.Mutex
	live  map[*byte]int
	bytes int64
}

// NewHeap returns a heap-backed provider. pageSize <= 0 selects 4096.
func NewHeap(pageSize int) *Heap {
	return &Heap{
		pageSize: pageSizeOrDefault(pageSize),
		live:     make(map[*byte]int),
	}
}

// PageSize implements Provider.
func (h *Heap) PageSize() int { return h.pageSize }

// Acquire implements Provider.
func (h *Heap) Acquire(order int) ([]byte, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	size := h.pageSize << order
	extent := make([]byte, size)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.live[&extent[0]] = size
	h.bytes += int64(size)
	return extent, nil
}

// Release implements Provider.
func (h *Heap) Release(extent []byte) error {
	k, ok := key(extent)
	if !ok {
		return ErrUnknownExtent
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	size, ok := h.live[k]
	if !ok {
		return fmt.Errorf("%w: %p", ErrUnknownExtent, k)
	}
	delete(h.live, k)
	h.bytes -= int64(size)
	return nil
}

// Live returns the number of extents currently handed out and their total size.
func (h *Heap) Live() (extents int, bytes int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live), h.bytes
}
