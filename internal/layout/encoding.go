package layout

import "encoding/binary"

// PutU32 writes a little-endian uint32 at off.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a little-endian uint32 at off.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// PutLink writes an in-band link, mapping a negative handle to NilLink.
func PutLink(b []byte, off int, h int) {
	if h < 0 {
		PutU32(b, off, NilLink)
		return
	}
	PutU32(b, off, uint32(h))
}

// ReadLink reads an in-band link, mapping NilLink to -1.
func ReadLink(b []byte, off int) int {
	v := ReadU32(b, off)
	if v == NilLink {
		return -1
	}
	return int(v)
}
