package layout

// SlabHeader is the decoded in-band header of a slab extent.
type SlabHeader struct {
	Magic    uint32
	Handle   uint32
	Capacity uint32
	Tag      uint32
}

// PutSlabHeader writes h at the start of extent.
func PutSlabHeader(extent []byte, h SlabHeader) {
	PutU32(extent, 0, h.Magic)
	PutU32(extent, 4, h.Handle)
	PutU32(extent, 8, h.Capacity)
	PutU32(extent, 12, h.Tag)
}

// ReadSlabHeader decodes the header at the start of extent.
func ReadSlabHeader(extent []byte) SlabHeader {
	return SlabHeader{
		Magic:    ReadU32(extent, 0),
		Handle:   ReadU32(extent, 4),
		Capacity: ReadU32(extent, 8),
		Tag:      ReadU32(extent, 12),
	}
}

// ObjectOffset returns the header offset of object index i in a slab with
// the given per-object slot size.
func ObjectOffset(i, slot int) int {
	return SlabHeaderSize + i*slot
}

// ObjectIndex is the inverse of ObjectOffset. ok is false when off does not
// sit on an object boundary.
func ObjectIndex(off, slot int) (int, bool) {
	rel := off - SlabHeaderSize
	if rel < 0 || slot <= 0 || rel%slot != 0 {
		return 0, false
	}
	return rel / slot, true
}

// PutObjectHeader writes the owner and link words of the object header at off.
func PutObjectHeader(extent []byte, off int, owner, link uint32) {
	PutU32(extent, off, owner)
	PutU32(extent, off+4, link)
}

// ReadObjectOwner returns the owner word of the object header at off.
func ReadObjectOwner(extent []byte, off int) uint32 {
	return ReadU32(extent, off)
}

// ReadObjectLink returns the link word of the object header at off.
func ReadObjectLink(extent []byte, off int) uint32 {
	return ReadU32(extent, off+4)
}

// PutObjectLink updates only the link word of the object header at off.
func PutObjectLink(extent []byte, off int, link uint32) {
	PutU32(extent, off+4, link)
}
