// Package layout centralises the byte-level layout shared by the allocators:
// alignment arithmetic, boundary tags and free-list links for arenas, object
// and slab headers for slab caches, and the packing of slab refs.
//
// All multi-byte fields are little-endian and accessed through
// encoding/binary, so nothing here depends on the host alignment of the
// underlying buffer. Callers are responsible for bounds checks; the helpers
// in this package slice the buffer directly and will panic when handed an
// offset outside it.
//
// # Arena block
//
//	Offset          Size  Description
//	0x00            4     Payload size in bytes (header tag)
//	0x04            4     Flags; bit 0 set when the block is free
//	0x08            size  Payload. Free blocks keep next/prev links here.
//	0x08+size       4     Payload size (footer tag)
//	0x0C+size       4     Flags (footer tag)
//
// # Slab extent
//
//	Offset          Size  Description
//	0x00            4     Magic "slab"
//	0x04            4     Slab handle
//	0x08            4     Object capacity
//	0x0C            4     Cache tag
//	0x10            ...   Objects, each ObjectHeaderSize + payload
package layout
