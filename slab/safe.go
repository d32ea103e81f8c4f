package slab

import (
	"sync"

	"github.com/joshuapare/allockit/page"
)

// SafeCache wraps a Cache with a mutex. Payload slices handed out by Alloc
// and Bytes are not guarded: the caller owns an object until it frees it.
type SafeCache struct {
	mu sync.Mutex
	c  *Cache
}

// NewSafe creates a mutex-guarded cache.
func NewSafe(provider page.Provider, objectSize int, opts ...Option) (*SafeCache, error) {
	c, err := New(provider, objectSize, opts...)
	if err != nil {
		return nil, err
	}
	return &SafeCache{c: c}, nil
}

// Alloc is Cache.Alloc under the lock.
func (s *SafeCache) Alloc() (Ref, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Alloc()
}

// Free is Cache.Free under the lock.
func (s *SafeCache) Free(ref Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Free(ref)
}

// Bytes is Cache.Bytes under the lock.
func (s *SafeCache) Bytes(ref Ref) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Bytes(ref)
}

// Shrink is Cache.Shrink under the lock.
func (s *SafeCache) Shrink() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Shrink()
}

// Teardown is Cache.Teardown under the lock.
func (s *SafeCache) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Teardown()
}

// Setup is Cache.Setup under the lock.
func (s *SafeCache) Setup(objectSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Setup(objectSize)
}

// Stats is Cache.Stats under the lock.
func (s *SafeCache) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Stats()
}

// Verify is Cache.Verify under the lock.
func (s *SafeCache) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Verify()
}
