// Package liveset records which handles an allocator has handed out, for the
// optional debug checks on Free. It is a thin wrapper over a roaring bitmap,
// which stays compact for both dense slab object numbers and sparse arena
// payload offsets.
package liveset

import "github.com/RoaringBitmap/roaring/v2"

// Set is a set of live uint32 handles. The zero value is not usable; use New.
type Set struct {
	bm *roaring.Bitmap
}

// New returns an empty set.
func New() *Set {
	return &Set{bm: roaring.New()}
}

// Add marks h live. It returns false when h was already live.
func (s *Set) Add(h uint32) bool {
	return s.bm.CheckedAdd(h)
}

// Remove clears h. It returns false when h was not live.
func (s *Set) Remove(h uint32) bool {
	return s.bm.CheckedRemove(h)
}

// Contains reports whether h is live.
func (s *Set) Contains(h uint32) bool {
	return s.bm.Contains(h)
}

// RemoveRange clears every handle in [lo, hi).
func (s *Set) RemoveRange(lo, hi uint64) {
	s.bm.RemoveRange(lo, hi)
}

// CountRange returns the number of live handles in [lo, hi).
func (s *Set) CountRange(lo, hi uint64) int {
	if hi <= lo {
		return 0
	}
	return int(s.bm.Rank(uint32(hi-1))) - int(s.rankBelow(lo))
}

// Len returns the number of live handles.
func (s *Set) Len() int {
	return int(s.bm.GetCardinality())
}

// Clear removes every handle.
func (s *Set) Clear() {
	s.bm.Clear()
}

// Each calls fn for every live handle in ascending order.
func (s *Set) Each(fn func(h uint32) bool) {
	it := s.bm.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

func (s *Set) rankBelow(lo uint64) uint64 {
	if lo == 0 {
		return 0
	}
	return s.bm.Rank(uint32(lo - 1))
}
