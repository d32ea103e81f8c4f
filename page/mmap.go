package page

import (
	"fmt"
	"sync"

	"github.com/joshuapare/allockit/internal/mmap"
)

// Mmap serves extents from anonymous private mappings, keeping slab memory
// off the Go heap. Released extents are unmapped immediately.
type Mmap struct {
	pageSize int

	mu    sync.Mutex
	live  map[*byte]func() error
	bytes int64
}

// NewMmap returns an mmap-backed provider. pageSize <= 0 selects 4096; the
// value should be a multiple of the OS page size.
func NewMmap(pageSize int) *Mmap {
	return &Mmap{
		pageSize: pageSizeOrDefault(pageSize),
		live:     make(map[*byte]func() error),
	}
}

// PageSize implements Provider.
func (m *Mmap) PageSize() int { return m.pageSize }

// Acquire implements Provider.
func (m *Mmap) Acquire(order int) ([]byte, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}
	extent, release, err := mmap.Anon(m.pageSize << order)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExhausted, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[&extent[0]] = release
	m.bytes += int64(len(extent))
	return extent, nil
}

// Release implements Provider.
func (m *Mmap) Release(extent []byte) error {
	k, ok := key(extent)
	if !ok {
		return ErrUnknownExtent
	}
	m.mu.Lock()
	release, ok := m.live[k]
	if ok {
		delete(m.live, k)
		m.bytes -= int64(len(extent))
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %p", ErrUnknownExtent, k)
	}
	return release()
}

// Live returns the number of extents currently mapped and their total size.
func (m *Mmap) Live() (extents int, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live), m.bytes
}
