// Package arena implements a boundary-tag allocator over a caller-supplied
// byte buffer.
//
// # Layout
//
// The buffer is tiled by blocks. Each block is a header tag, a payload and
// a footer tag identical to the header:
//
//	+--------+----------------------+--------+
//	| size|f |       payload        | size|f |
//	+--------+----------------------+--------+
//	  8 bytes                         8 bytes
//
// The footer lets Free find the block to its left in O(1). Free blocks
// keep next/prev links to other free blocks in the first 8 payload bytes.
//
// # Usage
//
//	a, err := arena.New(make([]byte, 1<<20))
//	if err != nil {
//	    return err
//	}
//	ref, b, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	copy(b, record)
//	...
//	err = a.Free(ref)
//
// # Persistence
//
// An arena holds no state outside its buffer besides the free-list head,
// which Load rebuilds from the tags. An arena over a file mapping can be
// reopened with Load after a restart. WithDirtyTracker reports every byte
// range the arena writes so the caller can msync just those pages.
package arena
