package layout

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// AlignDown8 returns n rounded down to an 8-byte boundary.
func AlignDown8(n int) int {
	return n &^ AlignmentMask
}

// IsAligned8 reports whether n is a multiple of 8.
func IsAligned8(n int) bool {
	return n&AlignmentMask == 0
}

// SlabCapacity returns how many objects of slot bytes fit in a slab of
// slabBytes after the slab header. Returns 0 when not even one fits.
func SlabCapacity(slabBytes, slot int) int {
	if slot <= 0 || slabBytes <= SlabHeaderSize {
		return 0
	}
	return (slabBytes - SlabHeaderSize) / slot
}

// ObjectSlot returns the per-object footprint for a payload of objectSize:
// the object header plus the payload, aligned to 8 bytes.
func ObjectSlot(objectSize int) int {
	return Align8(objectSize + ObjectHeaderSize)
}
