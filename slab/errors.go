package slab

import "errors"

var (
	// ErrOutOfMemory indicates the page provider could not supply a new slab.
	ErrOutOfMemory = errors.New("slab: out of memory")

	// ErrBadRef indicates a ref that does not name an object of this cache.
	ErrBadRef = errors.New("slab: bad object reference")

	// ErrDoubleFree indicates an object that is already on its slab's free list.
	ErrDoubleFree = errors.New("slab: object already free")

	// ErrObjectTooLarge indicates no slab order can hold even one object.
	ErrObjectTooLarge = errors.New("slab: object too large")

	// ErrBadOrder indicates a configured slab order outside the usable range.
	ErrBadOrder = errors.New("slab: slab order out of range")

	// ErrNotEmpty indicates Setup on a cache that still holds slabs.
	ErrNotEmpty = errors.New("slab: cache still holds slabs")

	// ErrNeedSmall indicates a non-positive object size.
	ErrNeedSmall = errors.New("slab: object size must be positive")
)
