package arena

import (
	"io"
	"sync"
)

// SafeArena wraps an Arena with a mutex. Payload slices are not guarded:
// the caller owns a block until it frees it.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafe formats b and returns a mutex-guarded arena over it.
func NewSafe(b []byte, opts ...Option) (*SafeArena, error) {
	a, err := New(b, opts...)
	if err != nil {
		return nil, err
	}
	return &SafeArena{a: a}, nil
}

// Alloc is Arena.Alloc under the lock.
func (s *SafeArena) Alloc(n int) (Ref, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Alloc(n)
}

// Free is Arena.Free under the lock.
func (s *SafeArena) Free(ref Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(ref)
}

// Bytes is Arena.Bytes under the lock.
func (s *SafeArena) Bytes(ref Ref) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Bytes(ref)
}

// Reset is Arena.Reset under the lock.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Stats is Arena.Stats under the lock.
func (s *SafeArena) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// Verify is Arena.Verify under the lock.
func (s *SafeArena) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Verify()
}

// Dump is Arena.Dump under the lock.
func (s *SafeArena) Dump(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Dump(w)
}
