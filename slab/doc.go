// Package slab implements a slab cache: a pool of equal-sized objects carved
// out of page-multiple extents obtained from a page.Provider.
//
// # Slabs and lists
//
// Each slab starts with a 16-byte header and holds Capacity objects, each
// preceded by an 8-byte header naming the owning slab and linking the slab's
// free objects into a chain. A slab is on exactly one of three lists:
//
//	free     every object free
//	partial  some objects free
//	full     no objects free
//
// Alloc takes from the head of partial, then free, and only then acquires a
// new slab. Free pushes the object back and moves its slab to free or
// partial. Shrink hands free slabs back to the provider.
//
// # Usage
//
//	c, err := slab.New(page.NewHeap(0), 128)
//	if err != nil {
//	    return err
//	}
//	ref, obj, err := c.Alloc()
//	if err != nil {
//	    return err
//	}
//	copy(obj, payload)
//	...
//	err = c.Free(ref)
//
// Set serves mixed sizes from one cache per size class. SafeCache adds a
// mutex for concurrent callers.
package slab
