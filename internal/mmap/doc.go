// Package mmap provides platform-specific helpers for mapping memory that
// lives outside the Go heap: anonymous private mappings used as slab
// extents, and shared file mappings used as persistent arena buffers.
//
// On platforms without mmap both helpers fall back to heap memory. A file
// "mapping" then reads the file and writes it back on release.
package mmap
