package layout

// PackSlabRef builds a slab ref from a cache tag, slab handle and payload offset.
// The handle is stored biased by one so the zero ref never decodes to a slab.
func PackSlabRef(tag uint16, handle, payload int) uint64 {
	return uint64(tag)<<(RefOffsetBits+RefHandleBits) |
		uint64((handle+1)&refHandleMask)<<RefOffsetBits |
		uint64(payload&refOffsetMask)
}

// UnpackSlabRef splits a slab ref. handle is -1 for the zero ref.
func UnpackSlabRef(ref uint64) (tag uint16, handle, payload int) {
	tag = uint16(ref >> (RefOffsetBits + RefHandleBits))
	handle = int((ref>>RefOffsetBits)&refHandleMask) - 1
	payload = int(ref & refOffsetMask)
	return tag, handle, payload
}
