package layout

// Tag is a decoded boundary tag.
type Tag struct {
	Size int  // Payload size in bytes, excluding both tags
	Free bool // True when the block is on the free list
}

// ReadTag decodes the boundary tag at off.
func ReadTag(b []byte, off int) Tag {
	return Tag{
		Size: int(ReadU32(b, off)),
		Free: ReadU32(b, off+4)&flagFree != 0,
	}
}

// PutTag encodes t at off.
func PutTag(b []byte, off int, t Tag) {
	PutU32(b, off, uint32(t.Size))
	var flags uint32
	if t.Free {
		flags |= flagFree
	}
	PutU32(b, off+4, flags)
}

// PutBlockTags writes t as both the header at hdr and the matching footer.
func PutBlockTags(b []byte, hdr int, t Tag) {
	PutTag(b, hdr, t)
	PutTag(b, FooterOf(hdr, t.Size), t)
}

// FooterOf returns the footer offset of the block whose header is at hdr.
func FooterOf(hdr, size int) int {
	return hdr + TagSize + size
}

// BlockEnd returns the offset one past the footer of the block at hdr.
func BlockEnd(hdr, size int) int {
	return hdr + size + BlockOverhead
}

// PayloadOf returns the payload offset of the block whose header is at hdr.
func PayloadOf(hdr int) int {
	return hdr + TagSize
}

// HeaderOf returns the header offset for a payload offset.
func HeaderOf(payload int) int {
	return payload - TagSize
}

// HeaderFromFooter returns the header offset of the block whose footer is at ftr.
func HeaderFromFooter(ftr, size int) int {
	return ftr - size - TagSize
}

// RawSize returns the number of buffer bytes a block of payload size occupies.
func RawSize(size int) int {
	return size + BlockOverhead
}

// Free block links live in the first LinkSize bytes of the payload.

// ReadNext returns the next link of the free block at hdr.
func ReadNext(b []byte, hdr int) int { return ReadLink(b, hdr+TagSize) }

// ReadPrev returns the prev link of the free block at hdr.
func ReadPrev(b []byte, hdr int) int { return ReadLink(b, hdr+TagSize+4) }

// PutNext sets the next link of the free block at hdr.
func PutNext(b []byte, hdr, next int) { PutLink(b, hdr+TagSize, next) }

// PutPrev sets the prev link of the free block at hdr.
func PutPrev(b []byte, hdr, prev int) { PutLink(b, hdr+TagSize+4, prev) }
